package lexicon

// defaultValences is a curated subset of a VADER-style valence lexicon,
// covering the vocabulary common in product and service feedback.
var defaultValences = map[string]float64{
	// positive
	"amazing":      3.2,
	"awesome":      3.1,
	"beautiful":    2.9,
	"best":         3.2,
	"better":       1.9,
	"brilliant":    2.8,
	"comfortable":  1.7,
	"convenient":   1.8,
	"delicious":    2.6,
	"delighted":    2.9,
	"easy":         1.9,
	"enjoy":        2.2,
	"enjoyed":      2.3,
	"excellent":    3.1,
	"exceptional":  2.9,
	"fantastic":    3.0,
	"fast":         1.5,
	"favorite":     2.3,
	"flawless":     2.9,
	"friendly":     2.2,
	"glad":         2.0,
	"good":         1.9,
	"great":        3.1,
	"happy":        2.7,
	"helpful":      2.1,
	"impressed":    2.4,
	"impressive":   2.4,
	"like":         1.5,
	"love":         3.2,
	"loved":        2.9,
	"nice":         1.8,
	"outstanding":  3.1,
	"perfect":      3.0,
	"pleasant":     2.0,
	"pleased":      2.2,
	"professional": 1.6,
	"prompt":       1.4,
	"recommend":    1.5,
	"recommended":  1.6,
	"reliable":     1.9,
	"satisfied":    2.0,
	"smooth":       1.5,
	"superb":       3.0,
	"thanks":       1.9,
	"thrilled":     2.9,
	"useful":       1.8,
	"wonderful":    2.7,
	"works":        1.2,

	// negative
	"angry":          -2.3,
	"annoying":       -1.9,
	"appalling":      -2.9,
	"atrocious":      -3.1,
	"awful":          -2.9,
	"bad":            -2.5,
	"broken":         -2.1,
	"buggy":          -2.0,
	"cheap":          -1.2,
	"confusing":      -1.5,
	"crash":          -2.0,
	"crashed":        -2.1,
	"defective":      -2.3,
	"disappointed":   -2.3,
	"disappointing":  -2.2,
	"disgusting":     -3.0,
	"dreadful":       -2.8,
	"expensive":      -1.1,
	"fail":           -2.3,
	"failed":         -2.3,
	"failure":        -2.4,
	"frustrated":     -2.2,
	"frustrating":    -2.1,
	"hate":           -2.7,
	"hated":          -2.7,
	"horrible":       -2.9,
	"late":           -1.3,
	"lousy":          -2.2,
	"mediocre":       -1.4,
	"mess":           -1.8,
	"nightmare":      -2.8,
	"pathetic":       -2.5,
	"poor":           -2.1,
	"problem":        -1.6,
	"problems":       -1.7,
	"refund":         -1.1,
	"rude":           -2.4,
	"sad":            -2.1,
	"scam":           -2.9,
	"slow":           -1.4,
	"terrible":       -2.5,
	"unacceptable":   -2.5,
	"unhappy":        -2.3,
	"unreliable":     -2.0,
	"unusable":       -2.5,
	"upset":          -2.1,
	"useless":        -2.3,
	"waste":          -2.2,
	"worst":          -3.1,
	"worthless":      -2.6,
	"wrong":          -1.9,
	"disappointment": -2.4,
}

// defaultBoosters raise the intensity of the following sentiment term.
var defaultBoosters = map[string]float64{
	"absolutely": 0.267,
	"completely": 0.267,
	"extremely":  0.305,
	"highly":     0.293,
	"incredibly": 0.293,
	"really":     0.267,
	"so":         0.293,
	"totally":    0.267,
	"truly":      0.267,
	"very":       0.293,
}

// defaultNegations flip the valence of a nearby sentiment term.
var defaultNegations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "none": {}, "nothing": {},
	"neither": {}, "nor": {}, "cannot": {}, "cant": {}, "dont": {},
	"doesnt": {}, "didnt": {}, "wont": {}, "wouldnt": {}, "couldnt": {},
	"shouldnt": {}, "isnt": {}, "wasnt": {}, "arent": {}, "werent": {},
	"hardly": {}, "barely": {}, "without": {}, "lack": {}, "lacking": {},
}
