package qc

type Tier string

const (
	TierBest         Tier = "best"
	TierGood         Tier = "good"
	TierNormal       Tier = "normal"
	TierAttention    Tier = "attention"
	TierPoor         Tier = "poor"
	TierHigh         Tier = "high"
	TierAdequate     Tier = "adequate"
	TierNearLimit    Tier = "near_limit"
	TierConservative Tier = "conservative"
	TierOnTarget     Tier = "on_target"
	TierMarginal     Tier = "marginal"
	TierUndefined    Tier = "undefined"
)

type Classification struct {
	Tier Tier   `json:"tier" yaml:"tier"`
	Text string `json:"text" yaml:"text"`
}

var undefined = Classification{Tier: TierUndefined, Text: "無法計算"}

// ClassifyStdDev grades the standard deviation of X. Boundaries are exclusive.
func ClassifyStdDev(s Measure) Classification {
	if !s.Valid {
		return undefined
	}
	switch v := s.Value; {
	case v < 28:
		return Classification{TierBest, "變異極小，控制極佳"}
	case v < 35:
		return Classification{TierGood, "變異小，表現穩定"}
	case v < 42:
		return Classification{TierNormal, "變異屬正常"}
	default:
		return Classification{TierAttention, "變異略大，部分點波動需留意"}
	}
}

// ClassifyV1 grades the within-group coefficient of variation (%).
func ClassifyV1(v1 Measure) Classification {
	if !v1.Valid {
		return undefined
	}
	switch v := v1.Value; {
	case v <= 3:
		return Classification{TierBest, "最佳級，取樣一致性極佳"}
	case v <= 4:
		return Classification{TierGood, "很好級，取樣一致性良好"}
	case v <= 6:
		return Classification{TierNormal, "正常級，變異可接受"}
	default:
		return Classification{TierPoor, "不良級，建議加強取樣穩定性"}
	}
}

// ClassifyVPercent grades the overall coefficient of variation (%).
func ClassifyVPercent(vp Measure) Classification {
	if !vp.Valid {
		return undefined
	}
	switch v := vp.Value; {
	case v <= 6:
		return Classification{TierBest, "最佳級，整體製程極穩定"}
	case v <= 8:
		return Classification{TierGood, "良好級，整體波動小"}
	case v <= 10:
		return Classification{TierNormal, "正常級，建議持續觀察"}
	default:
		return Classification{TierPoor, "偏高級，建議檢討原料/施工波動"}
	}
}

// ClassifySafety grades X̄/fc'.
func ClassifySafety(r Measure) Classification {
	if !r.Valid {
		return undefined
	}
	switch v := r.Value; {
	case v >= 1.2:
		return Classification{TierHigh, "強度安全性高"}
	case v >= 1.1:
		return Classification{TierAdequate, "強度足夠，略保守"}
	default:
		return Classification{TierNearLimit, "強度接近設計下限，建議留意"}
	}
}

// ClassifyEconomy grades X̄/fcr'.
func ClassifyEconomy(r Measure) Classification {
	if !r.Valid {
		return undefined
	}
	switch v := r.Value; {
	case v >= 1.2:
		return Classification{TierConservative, "強度過高，可能配比偏保守"}
	case v >= 1.05:
		return Classification{TierOnTarget, "強度達標，配比偏穩健"}
	default:
		return Classification{TierMarginal, "強度接近目標邊緣，風險需控管"}
	}
}
