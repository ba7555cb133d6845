package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// instructionsMarkdown 文件格式说明（前端直接渲染）
const instructionsMarkdown = `### 数据文件 (Data File)
数据文件需要包含以下列（列名区分大小写）:
- **responseid**: 受访者唯一标识 (如 11035)
- **Country**: 受访者所在国家 (如 "South Korea", "Germany")
- **Industry**: 受访者所属行业 (如 "Technology/IT", "Retail/FMCG")
- **Revenue Range**: 受访者的营收区间，必须与配额文件中的营收区间列名完全一致

**示例:**

| responseid | Country     | Industry      | Revenue Range |
|------------|-------------|---------------|---------------|
| 11035      | South Korea | Technology/IT | 1B+           |
| 11033      | Germany     | Retail/FMCG   | 250M to 500M  |

### 配额文件 (Universe File)
配额文件需要包含以下列:
- **Industry**: 行业
- **Country**: 国家
- **营收区间列**: 一列或多列营收区间 (如 "Less than 250M", "250M to 500M", "500M to 1B", "1B+")，
  列名必须与数据文件 Revenue Range 列的取值完全一致，单元格取值必须为数值配额

**示例:**

| Industry      | Country | Less than 250M | 250M to 500M | 500M to 1B | 1B+ |
|---------------|---------|----------------|--------------|------------|-----|
| Technology/IT | Canada  | 6375           | 224          | 175        | 279 |

**注意:**
- 列名区分大小写
- 两份文件中的国家与行业名称必须一致（不做大小写折叠或去空格）
- 同一 (Country, Industry) 组合在配额文件中只能出现一次
`

// GetInstructions 文件格式说明
// GET /api/instructions
func (h *Handler) GetInstructions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"markdown": instructionsMarkdown,
	})
}
