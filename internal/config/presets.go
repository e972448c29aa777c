package config

// The four compiled-in presets, recovered from the app's preset gallery.
// Bars2 is the compiled default the firmware boots with before any host
// has connected.

// Stripes returns the 4-channel stripes preset: quartered bass/mid/treble
// split with a broad premult and a light noise gate.
func Stripes() AppConfig {
	var ch = ChannelConfig{
		StartIndex: 0,
		EndIndex:   0,
		Premult:    3.0,
		NoiseGate:  0.01,
		Exponent:   6,
		Color:      [3]float32{1, 1, 1},
		Aggregate:  AggregateSum,
	}

	var ranges = [4][2]int{{0, 3}, {3, 10}, {10, 40}, {40, 255}}
	var pattern Pattern
	pattern.Kind = PatternStripes

	for i, r := range ranges {
		var c = ch
		c.StartIndex, c.EndIndex = r[0], r[1]
		pattern.Stripes[i] = c
	}

	return AppConfig{
		ConfigVersion: ConfigVersion,
		SampleCount:   256,
		FFTSize:       FFTSize512,
		UseHannWindow: true,
		Pattern:       pattern,
	}
}

// Bars returns the 8-channel rainbow-colored bars preset.
func Bars() AppConfig {
	var colors = [8][3]float32{
		{1, 0, 0}, {1, 0.5, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 1, 1}, {0, 0, 1}, {0.5, 0, 1}, {1, 0, 1},
	}
	var ranges = [8][2]int{
		{0, 2}, {2, 5}, {5, 9}, {9, 16},
		{16, 28}, {28, 50}, {50, 100}, {100, 255},
	}

	var pattern Pattern
	pattern.Kind = PatternBars

	for i := range colors {
		pattern.Bars[i] = ChannelConfig{
			StartIndex: ranges[i][0],
			EndIndex:   ranges[i][1],
			Premult:    3.0,
			NoiseGate:  0.01,
			Exponent:   6,
			Color:      colors[i],
			Aggregate:  AggregateSum,
		}
	}

	return AppConfig{
		ConfigVersion: ConfigVersion,
		SampleCount:   256,
		FFTSize:       FFTSize512,
		UseHannWindow: true,
		Pattern:       pattern,
	}
}

// Quarters returns the 4-channel quarters preset.
func Quarters() AppConfig {
	var base = Stripes()
	var pattern Pattern
	pattern.Kind = PatternQuarters
	pattern.Quarters = base.Pattern.Stripes
	base.Pattern = pattern

	return base
}

// Bars2 is the compiled default: 8 channels with varying premult and no
// noise gate, exponent 1 (linear magnitude).
func Bars2() AppConfig {
	var colors = [8][3]float32{
		{1, 0, 0}, {1, 0.5, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 1, 1}, {0, 0.3, 1}, {0.6, 0, 1}, {1, 0, 0.6},
	}
	var premults = [8]float32{2.0, 2.5, 3.0, 4.0, 5.0, 6.0, 8.0, 10.0}
	var ranges = [8][2]int{
		{0, 2}, {2, 4}, {4, 7}, {7, 12},
		{12, 18}, {18, 23}, {23, 100}, {100, 255},
	}

	var pattern Pattern
	pattern.Kind = PatternBars

	for i := range colors {
		pattern.Bars[i] = ChannelConfig{
			StartIndex: ranges[i][0],
			EndIndex:   ranges[i][1],
			Premult:    premults[i],
			NoiseGate:  0,
			Exponent:   1,
			Color:      colors[i],
			Aggregate:  AggregateSum,
		}
	}

	return AppConfig{
		ConfigVersion: ConfigVersion,
		SampleCount:   256,
		FFTSize:       FFTSize512,
		UseHannWindow: false,
		Pattern:       pattern,
	}
}

// Default is the config the firmware boots with before any host connects.
func Default() AppConfig {
	return Bars2()
}
