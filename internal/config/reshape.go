package config

// ReshapeForPattern converts cfg to a new pattern kind the way the host
// editor does: the leading min(src, dst) channels are copied to preserve
// user edits, the rest are padded with DefaultChannel. The firmware itself
// never calls this — it accepts whatever valid variant it is given — but
// the algorithm belongs next to the data model it edits.
func ReshapeForPattern(cfg AppConfig, kind PatternKind) AppConfig {
	var src = cfg.Pattern.Channels()
	var dstLen int

	switch kind {
	case PatternStripes, PatternQuarters:
		dstLen = 4
	case PatternBars:
		dstLen = 8
	default:
		return cfg
	}

	var dst = make([]ChannelConfig, dstLen)
	for i := range dst {
		if i < len(src) {
			dst[i] = src[i]
		} else {
			dst[i] = DefaultChannel()
		}
	}

	var pattern Pattern
	pattern.Kind = kind

	switch kind {
	case PatternStripes:
		copy(pattern.Stripes[:], dst)
	case PatternBars:
		copy(pattern.Bars[:], dst)
	case PatternQuarters:
		copy(pattern.Quarters[:], dst)
	}

	cfg.Pattern = pattern

	return cfg
}
