package constants

// ReferenceRow is one line of a printed grading table.
type ReferenceRow struct {
	Range string
	Grade string
	Note  string
}

var (
	V1Reference = []ReferenceRow{
		{"≤ 3.0%", "最佳級", "取樣一致性極佳"},
		{"3.0 ~ 4.0%", "很好級", "取樣一致性良好"},
		{"4.0 ~ 6.0%", "正常級", "可接受，變異中等"},
		{"> 6.0%", "不良級", "建議加強取樣穩定性"},
	}

	VPercentReference = []ReferenceRow{
		{"≤ 6.0%", "最佳級", "整體製程非常穩定"},
		{"6.0 ~ 8.0%", "良好級", "整體波動低"},
		{"8.0 ~ 10.0%", "正常級", "建議持續觀察"},
		{"> 10.0%", "偏高級", "建議檢討原料或施工變異"},
	}
)
