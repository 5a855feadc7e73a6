package rep

import (
	"strings"

	"natsumin/core/fuzzy"
)

// Rep is a participant's declared affiliation.
type Rep string

const (
	Tearmoon       Rep = "TEARMOON"
	ShieldHero     Rep = "SHIELD HERO"
	Iruma          Rep = "IRUMA-KUN"
	Frieren        Rep = "FRIEREN"
	Eminence       Rep = "EMINENCE IN SHADOW"
	GoTouboun      Rep = "5TOUBOUN"
	Vanitas        Rep = "VANITAS NO CARTE"
	Kaguya         Rep = "KAGUYA-SAMA"
	Tonikawa       Rep = "TONIKAWA"
	Madoka         Rep = "MADOKA"
	EightySix      Rep = "86"
	FtEz           Rep = "FTxEZ"
	SpyFamily      Rep = "SPY X FAMILY"
	Makeine        Rep = "MAKEINE"
	WorldTrigger   Rep = "WORLD TRIGGER"
	KaoruHana      Rep = "KAORU HANA"
	Kanokari       Rep = "KANOKARI"
	Anicord        Rep = "ANICORD"
	Beastars       Rep = "BEASTARS"
	CodeGeass      Rep = "CODE GEASS"
	SAO            Rep = "SWORD ART ONLINE"
	LycorisRecoil  Rep = "LYCORIS RECOIL"
	WitchHat       Rep = "WITCH HAT ATELIER"
	DressUpDarling Rep = "MY DRESS-UP DARLING"
	COTE           Rep = "CLASSROOM OF THE ELITE"
	SakamotoDays   Rep = "SAKAMOTO DAYS"
	Onimai         Rep = "ONIMAI"
	Bleach         Rep = "BLEACH"
	Otonari        Rep = "OTONARI"
	Gokurakugai    Rep = "GOKURAKUGAI"
	HousekiNoKuni  Rep = "HOUSEKI NO KUNI"
	Jellyfish      Rep = "JELLYFISH"
	Kumo           Rep = "KUMO"
	Roshidere      Rep = "ROSHIDERE"
	Bocchi         Rep = "BOCCHI"
	UndeadUnluck   Rep = "UNDEAD UNLUCK"
	KOn            Rep = "K-ON"
	Overlord       Rep = "OVERLORD"
	Fate           Rep = "FATE"
	Komi           Rep = "KOMI"
	Mushoku        Rep = "MUSHOKU"
	Nokotan        Rep = "NOKOTAN"
	OshiNoKo       Rep = "OSHI NO KO"
	Precure        Rep = "PRECURE"
	ReZero         Rep = "REZERO"
	SBY            Rep = "SBY"
	Tensura        Rep = "TENSURA"
	GirlsBandCry   Rep = "GIRLS BAND CRY"
	Vivy           Rep = "VIVY"
	MadeInAbyss    Rep = "MADE IN ABYSS"
	NGNL           Rep = "NO GAME NO LIFE"
	KingsProposal  Rep = "KING'S PROPOSAL"
	Madome         Rep = "AN ARCHDEMON'S DILEMMA"
	TokyoRevengers Rep = "TOKYO REVENGERS"
	Manhwa         Rep = "MANHWA"
	VisualNovel    Rep = "VISUAL NOVEL"
)

// All lists every affiliation in declaration order.
var All = []Rep{
	Tearmoon, ShieldHero, Iruma, Frieren, Eminence, GoTouboun, Vanitas, Kaguya, Tonikawa, Madoka,
	EightySix, FtEz, SpyFamily, Makeine, WorldTrigger, KaoruHana, Kanokari, Anicord, Beastars,
	CodeGeass, SAO, LycorisRecoil, WitchHat, DressUpDarling, COTE, SakamotoDays, Onimai, Bleach,
	Otonari, Gokurakugai, HousekiNoKuni, Jellyfish, Kumo, Roshidere, Bocchi, UndeadUnluck, KOn,
	Overlord, Fate, Komi, Mushoku, Nokotan, OshiNoKo, Precure, ReZero, SBY, Tensura, GirlsBandCry,
	Vivy, MadeInAbyss, NGNL, KingsProposal, Madome, TokyoRevengers, Manhwa, VisualNovel,
}

// alternatives are the spellings seen on sheets besides the canonical name.
var alternatives = map[Rep][]string{
	Tearmoon:       {"tearmoon empire"},
	ShieldHero:     {"shield_hero"},
	GoTouboun:      {"the quintessential quintuplets", "5tbn", "go_touboun"},
	Vanitas:        {"vnc"},
	Kaguya:         {"kaguya-sama love is war"},
	Iruma:          {"welcome to demon school! iruma-kun"},
	EightySix:      {"eighty_six"},
	FtEz:           {"fairy tail x eden zero (ft x ez)", "ft_ez"},
	Anicord:        {"anicord event server", "aes"},
	DressUpDarling: {"bisque", "mdud"},
	WitchHat:       {"wha"},
	LycorisRecoil:  {"lycoreco"},
	HousekiNoKuni:  {"land of the lustrous"},
	Kumo:           {"kumo desu ga, nani ka?", "so i'm a spider, so what?"},
	Otonari:        {"otonari no tenshi sama", "the angel next door spoils me rotten"},
	Bocchi:         {"bocchi the rock"},
	Fate:           {"fate/type-moon"},
	Komi:           {"komi can't communicate"},
	Mushoku:        {"mushoku tensei"},
	Precure:        {"precord"},
	SBY:            {"bunny girl senpai", "aobuta"},
	Tensura:        {"slime", "that time i got reincarnated as a slime"},
	KingsProposal:  {"kp"},
	VisualNovel:    {"vn"},
	GirlsBandCry:   {"gbc"},
	NGNL:           {"ngnl"},
	Madome:         {"madome"},
}

// DefaultConfidence is the minimum fuzzy score accepted by Classify.
const DefaultConfidence = 80

type choice struct {
	key string
	rep Rep
}

var universe = buildChoices(All)

func buildChoices(reps []Rep) []choice {
	seen := make(map[string]struct{})
	var out []choice
	add := func(key string, r Rep) {
		key = strings.ToLower(key)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, choice{key: key, rep: r})
	}
	for _, r := range reps {
		add(string(r), r)
		for _, alt := range alternatives[r] {
			add(alt, r)
		}
	}
	return out
}

type options struct {
	confidence int
	only       []Rep
}

// Option tunes a Classify call.
type Option func(*options)

// WithConfidence sets the minimum fuzzy score.
func WithConfidence(n int) Option {
	return func(o *options) { o.confidence = n }
}

// Only restricts matching to the given affiliations.
func Only(reps ...Rep) Option {
	if reps == nil {
		reps = []Rep{}
	}
	return func(o *options) { o.only = reps }
}

// Classify maps free text to an affiliation. An exact case-insensitive hit
// on a name or alternative wins; otherwise the best fuzzy match at or above
// the confidence threshold is returned. The score is 100 for exact hits.
func Classify(text string, opts ...Option) (Rep, int, bool) {
	o := options{confidence: DefaultConfidence}
	for _, opt := range opts {
		opt(&o)
	}

	query := strings.ToLower(strings.TrimSpace(text))
	if query == "" {
		return "", 0, false
	}

	choices := universe
	if o.only != nil {
		choices = buildChoices(o.only)
	}

	for _, c := range choices {
		if c.key == query {
			return c.rep, 100, true
		}
	}

	keys := make([]string, len(choices))
	for i, c := range choices {
		keys[i] = c.key
	}
	m, ok := fuzzy.ExtractBest(query, keys, o.confidence)
	if !ok {
		return "", 0, false
	}
	return choices[m.Index].rep, m.Score, true
}

// Parse returns the affiliation whose canonical name equals s, ignoring case.
func Parse(s string) (Rep, bool) {
	for _, r := range All {
		if strings.EqualFold(string(r), s) {
			return r, true
		}
	}
	return "", false
}
