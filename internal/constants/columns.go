package constants

const (
	// Header names as they appear in files produced by site engineers.
	ColSampleDate = "取樣日期"
	ColGroupNo    = "組號"
	ColLocation   = "施工部位"

	// Every column whose header starts with this prefix holds one replicate reading.
	ReplicatePrefix = "X"

	DefaultFc  = 420.0
	DefaultFcr = 525.0

	MovingWindow = 5

	StrengthUnit = "kg/cm²"
)

var (
	// English aliases accepted in place of the locale headers.
	SampleDateAliases = map[string]bool{
		ColSampleDate: true,
		"sample_date": true,
		"date":        true,
	}

	GroupNoAliases = map[string]bool{
		ColGroupNo: true,
		"group_no": true,
		"group":    true,
	}

	LocationAliases = map[string]bool{
		ColLocation: true,
		"location":  true,
	}
)
