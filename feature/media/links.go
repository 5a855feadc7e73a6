package media

import (
	"regexp"

	"natsumin/core/utils"
)

// Source identifies an external metadata site.
type Source string

const (
	SourceAnilist Source = "anilist"
	SourceMAL     Source = "mal"
	SourceSteam   Source = "steam"
)

var linkPatterns = []struct {
	source  Source
	pattern *regexp.Regexp
}{
	{SourceAnilist, regexp.MustCompile(`^https://anilist\.co/.+/(\d+)(?:/.*)?`)},
	{SourceMAL, regexp.MustCompile(`^https://myanimelist\.net/.+/(\d+)(?:/.*)?`)},
	{SourceSteam, regexp.MustCompile(`^https://store\.steampowered\.com/.+/(\d+)(?:/.*)?`)},
}

// Ref is an id on an external site.
type Ref struct {
	Source Source
	ID     string
}

// ParseLink classifies a URL by site and extracts its numeric id.
func ParseLink(url string) (Ref, bool) {
	for _, lp := range linkPatterns {
		if m := lp.pattern.FindStringSubmatch(url); m != nil {
			return Ref{Source: lp.source, ID: m[1]}, true
		}
	}
	return Ref{}, false
}

// Slot identifies the contract a link was read from.
type Slot struct {
	SeasonID     string
	ContracteeID string
	Type         string
}

// Pending collects ids to look up at the end of a pass, along with the
// contracts that carried them.
type Pending struct {
	Anilist map[string]struct{}
	MAL     map[string]struct{}
	Steam   map[string]struct{}
	Slots   map[Ref][]Slot
}

// NewPending creates an empty queue.
func NewPending() *Pending {
	return &Pending{
		Anilist: make(map[string]struct{}),
		MAL:     make(map[string]struct{}),
		Steam:   make(map[string]struct{}),
		Slots:   make(map[Ref][]Slot),
	}
}

// Add queues ref for lookup.
func (p *Pending) Add(ref Ref) {
	switch ref.Source {
	case SourceAnilist:
		p.Anilist[ref.ID] = struct{}{}
	case SourceMAL:
		p.MAL[ref.ID] = struct{}{}
	case SourceSteam:
		p.Steam[ref.ID] = struct{}{}
	}
}

func (p *Pending) queued(ref Ref) bool {
	var set map[string]struct{}
	switch ref.Source {
	case SourceAnilist:
		set = p.Anilist
	case SourceMAL:
		set = p.MAL
	case SourceSteam:
		set = p.Steam
	}
	_, ok := set[ref.ID]
	return ok
}

// Attach records that slot links to url. Only queued ids are tracked, so the
// media step can rewrite those contracts once the lookup settles.
func (p *Pending) Attach(url string, slot Slot) {
	ref, ok := ParseLink(url)
	if !ok || !p.queued(ref) {
		return
	}
	p.Slots[ref] = append(p.Slots[ref], slot)
}

// Len returns the number of queued ids.
func (p *Pending) Len() int {
	return len(p.Anilist) + len(p.MAL) + len(p.Steam)
}

// Index is a snapshot of the media cache taken at the start of a pass.
type Index struct {
	anilist      map[string]struct{}
	malToAnilist map[string]string
	steam        map[string]struct{}
	noMatch      map[Source]map[string]struct{}
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		anilist:      make(map[string]struct{}),
		malToAnilist: make(map[string]string),
		steam:        make(map[string]struct{}),
		noMatch:      make(map[Source]map[string]struct{}),
	}
}

func (ix *Index) isNoMatch(ref Ref) bool {
	_, ok := ix.noMatch[ref.Source][ref.ID]
	return ok
}

// Link turns a contract hyperlink into the media reference stored on the
// contract and queues ids the cache does not know yet.
//
// MyAnimeList ids are stored as their AniList equivalent once known and are
// not stored at all before that. Ids in the negative cache are neither
// queued nor stored.
func (ix *Index) Link(url string, pending *Pending) (mediaType, mediaID *string) {
	ref, ok := ParseLink(url)
	if !ok {
		return nil, nil
	}

	switch ref.Source {
	case SourceAnilist:
		if _, known := ix.anilist[ref.ID]; !known {
			if ix.isNoMatch(ref) {
				return nil, nil
			}
			pending.Add(ref)
		}
		return utils.Ptr(string(SourceAnilist)), utils.Ptr(ref.ID)

	case SourceMAL:
		if anilistID, known := ix.malToAnilist[ref.ID]; known {
			return utils.Ptr(string(SourceAnilist)), utils.Ptr(anilistID)
		}
		if !ix.isNoMatch(ref) {
			pending.Add(ref)
		}
		return nil, nil

	case SourceSteam:
		if _, known := ix.steam[ref.ID]; !known {
			if ix.isNoMatch(ref) {
				return nil, nil
			}
			pending.Add(ref)
		}
		return utils.Ptr(string(SourceSteam)), utils.Ptr(ref.ID)
	}

	return nil, nil
}
