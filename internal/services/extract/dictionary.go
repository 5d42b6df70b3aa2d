package extract

import "regexp"

// LabelField binds a display label from the RDMS templates to a normalized
// field name. Order matters: the first entry whose label matches a row wins,
// so broader labels must come after the more specific variants they would
// otherwise shadow. Exact entries only match the whole label; the rest match
// by substring.
type LabelField struct {
	Label string
	Field string
	Exact bool
}

// SectionRule describes one ".detail-title" section of a bugmarket view page.
// When Field is set the whole section body is taken as the field value;
// otherwise Pairs are matched against the stride-2 label/value cells inside
// the section tables.
type SectionRule struct {
	Title string
	Field string
	Pairs []LabelField
}

// AreaRule is the long-text fallback: semantic class/name selectors tried in
// order for a field the earlier passes left empty.
type AreaRule struct {
	Field     string
	Selectors []string
}

// RecordSpec parameterizes the field extraction engine for one record type.
// Variation between the bug and market-bug page families is data here, not
// duplicated code paths.
type RecordSpec struct {
	Labels         []LabelField
	Sections       []SectionRule
	Areas          []AreaRule
	TitlePrefix    *regexp.Regexp
	TitleSuffixes  []*regexp.Regexp
	TitleFallbacks []string
	SkipImageSrc   []string
}

// bugTitlePrefix strips the leading record-number token from a page title.
var bugTitlePrefix = regexp.MustCompile(`^BUG\s*#\d+\s*`)

// DefaultSiteNames are the site/product suffix tokens trimmed from page
// titles. Installations with different branding override these via config.
var DefaultSiteNames = []string{"FT-V3.X", "锐明RDMS"}

func titleSuffixPatterns(siteNames []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(siteNames))
	for _, name := range siteNames {
		if name == "" {
			continue
		}
		patterns = append(patterns, regexp.MustCompile(`\s*-\s*`+regexp.QuoteMeta(name)+`\s*$`))
	}
	return patterns
}

// bugLabels is the label dictionary for regular bug view pages, in match
// priority order.
var bugLabels = []LabelField{
	{Label: "状态", Field: "status"},
	{Label: "Bug状态", Field: "status"},
	{Label: "优先级", Field: "priority"},
	{Label: "严重程度", Field: "severity"},
	{Label: "是否确认", Field: "confirmed"},
	{Label: "指派给", Field: "assignedTo"},
	{Label: "由谁创建", Field: "reporter"},
	{Label: "创建者", Field: "createdBy"},
	{Label: "报告人", Field: "reporter"},
	{Label: "解决者", Field: "resolvedBy"},
	{Label: "关闭者", Field: "closedBy"},
	{Label: "抄送给", Field: "cc"},
	{Label: "所属产品", Field: "product"},
	{Label: "所属项目", Field: "project"},
	{Label: "所属模块", Field: "module"},
	{Label: "影响版本", Field: "version"},
	{Label: "版本", Field: "affectedVersion"},
	{Label: "解决版本", Field: "resolvedVersion"},
	{Label: "操作系统", Field: "os"},
	{Label: "浏览器", Field: "browser"},
	{Label: "平台/设备", Field: "platformDevice"},
	{Label: "Bug类型", Field: "bugType"},
	{Label: "类型", Field: "bugType"},
	{Label: "计划", Field: "plan"},
	{Label: "所属计划", Field: "plan"},
	{Label: "归属", Field: "attribution"},
	{Label: "归属团队", Field: "attributionTeam"},
	{Label: "价值属性", Field: "valueAttribute"},
	{Label: "激活次数", Field: "activationCount"},
	{Label: "激活日期", Field: "activationDate"},
	{Label: "出现概率", Field: "probability"},
	{Label: "常见问题", Field: "commonIssue"},
	{Label: "执行", Field: "execution"},
	{Label: "需求", Field: "requirement"},
	{Label: "关联需求", Field: "requirement"},
	{Label: "任务", Field: "task"},
	{Label: "关联任务", Field: "task"},
	{Label: "相关Bug", Field: "relatedBugs"},
	{Label: "相关用例", Field: "relatedCases"},
	{Label: "截止日期", Field: "deadline"},
	{Label: "创建时间", Field: "created"},
	{Label: "更新时间", Field: "updated"},
	{Label: "最后修改", Field: "lastModified"},
	{Label: "重现步骤", Field: "steps"},
	{Label: "详细描述", Field: "description"},
	{Label: "描述", Field: "description"},
	{Label: "关键词", Field: "keywords"},
	{Label: "解决方案", Field: "solution"},
}

// marketLabels covers the basic-info side table of bugmarket view pages.
// Labels there are exact template strings, so most entries are exact matches;
// the trailing substring entries pick up installation-specific variants.
var marketLabels = []LabelField{
	{Label: "缺陷状态", Field: "status", Exact: true},
	{Label: "缺陷类型", Field: "defectType", Exact: true},
	{Label: "优先级", Field: "priority", Exact: true},
	{Label: "严重程度", Field: "severity", Exact: true},
	{Label: "指派给", Field: "assignedTo", Exact: true},
	{Label: "由谁创建", Field: "reporter", Exact: true},
	{Label: "创建日期", Field: "created", Exact: true},
	{Label: "最后修改", Field: "updated", Exact: true},
	{Label: "计划修复时间", Field: "planFixTime", Exact: true},
	{Label: "问题归属团队", Field: "problemAttributionTeam", Exact: true},
	{Label: "定位问题", Field: "locationProblem", Exact: true},
	{Label: "是否确认", Field: "confirmed", Exact: true},
	{Label: "解决日期", Field: "solveDate", Exact: true},
	{Label: "关闭日期", Field: "closeDate", Exact: true},
	{Label: "提交页面", Field: "submitPage", Exact: true},
	{Label: "所属项目", Field: "project"},
	{Label: "所属模块", Field: "module"},
	{Label: "版本", Field: "version"},
}

// marketSections maps the titled detail sections of a bugmarket view page.
var marketSections = []SectionRule{
	{
		Title: "产品信息",
		Pairs: []LabelField{
			{Label: "产品线", Field: "productLine", Exact: true},
			{Label: "所属产品", Field: "product", Exact: true},
			{Label: "产品问题版本号", Field: "productVersion", Exact: true},
			{Label: "产品系统组成", Field: "productSystem", Exact: true},
		},
	},
	{
		Title: "客户信息",
		Pairs: []LabelField{
			{Label: "所属大区", Field: "region", Exact: true},
			{Label: "客户代码", Field: "customerCode", Exact: true},
			{Label: "客户名称", Field: "customerName", Exact: true},
			{Label: "期望解决日期", Field: "expectedSolveDate", Exact: true},
		},
	},
	{
		Title: "缺陷信息",
		Pairs: []LabelField{
			{Label: "问题级别", Field: "problemLevel", Exact: true},
			{Label: "前方技术支持", Field: "frontTechSupport", Exact: true},
			{Label: "缺陷描述", Field: "defectDescription", Exact: true},
			{Label: "临时对策", Field: "temporaryResponse", Exact: true},
		},
	},
	{Title: "解决方案", Field: "solution"},
	{Title: "缺陷归属", Field: "defectAttribution"},
}

var bugAreas = []AreaRule{
	{Field: "steps", Selectors: []string{".steps", ".reproduce-steps", `[name*="steps"]`}},
	{Field: "description", Selectors: []string{".description", ".bug-description", `[name*="desc"]`}},
}

// NewBugSpec builds the extraction spec for regular bug view pages.
func NewBugSpec(siteNames []string) *RecordSpec {
	if len(siteNames) == 0 {
		siteNames = DefaultSiteNames
	}
	return &RecordSpec{
		Labels:         bugLabels,
		Areas:          bugAreas,
		TitlePrefix:    bugTitlePrefix,
		TitleSuffixes:  titleSuffixPatterns(siteNames),
		TitleFallbacks: []string{".page-title .text", ".page-title", "h1"},
		SkipImageSrc:   []string{"data:", "base64"},
	}
}

// NewMarketBugSpec builds the extraction spec for bugmarket view pages. The
// extra skip tokens keep template chrome (theme sprites, icons) out of the
// image list.
func NewMarketBugSpec(siteNames []string) *RecordSpec {
	if len(siteNames) == 0 {
		siteNames = DefaultSiteNames
	}
	return &RecordSpec{
		Labels:         marketLabels,
		Sections:       marketSections,
		TitlePrefix:    bugTitlePrefix,
		TitleSuffixes:  titleSuffixPatterns(siteNames),
		TitleFallbacks: []string{".page-title .text", ".page-title", "h1"},
		SkipImageSrc:   []string{"data:", "base64", "theme/", "icon"},
	}
}
