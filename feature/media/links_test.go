package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLink(t *testing.T) {
	tests := []struct {
		url    string
		want   Ref
		wantOK bool
	}{
		{"https://anilist.co/anime/21/One-Piece/", Ref{SourceAnilist, "21"}, true},
		{"https://anilist.co/manga/30013", Ref{SourceAnilist, "30013"}, true},
		{"https://myanimelist.net/anime/5114/Fullmetal_Alchemist", Ref{SourceMAL, "5114"}, true},
		{"https://store.steampowered.com/app/620/Portal_2/", Ref{SourceSteam, "620"}, true},
		{"http://anilist.co/anime/21", Ref{}, false},
		{"see https://anilist.co/anime/21", Ref{}, false},
		{"https://example.com/anime/21", Ref{}, false},
		{"", Ref{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseLink(tt.url)
		assert.Equal(t, tt.wantOK, ok, tt.url)
		assert.Equal(t, tt.want, got, tt.url)
	}
}

func TestIndexLink_Anilist(t *testing.T) {
	ix := NewIndex()
	ix.anilist["1"] = struct{}{}
	ix.noMatch[SourceAnilist] = map[string]struct{}{"3": {}}
	p := NewPending()

	typ, id := ix.Link("https://anilist.co/anime/1/", p)
	require.NotNil(t, typ)
	assert.Equal(t, "anilist", *typ)
	assert.Equal(t, "1", *id)
	assert.Zero(t, p.Len())

	typ, id = ix.Link("https://anilist.co/anime/2/", p)
	require.NotNil(t, typ)
	assert.Equal(t, "2", *id)
	assert.Contains(t, p.Anilist, "2")

	typ, id = ix.Link("https://anilist.co/anime/3/", p)
	assert.Nil(t, typ)
	assert.Nil(t, id)
	assert.NotContains(t, p.Anilist, "3")
}

func TestIndexLink_MALRewrittenWhenKnown(t *testing.T) {
	ix := NewIndex()
	ix.malToAnilist["5114"] = "5114000"
	ix.noMatch[SourceMAL] = map[string]struct{}{"9": {}}
	p := NewPending()

	typ, id := ix.Link("https://myanimelist.net/anime/5114/FMA", p)
	require.NotNil(t, typ)
	assert.Equal(t, "anilist", *typ)
	assert.Equal(t, "5114000", *id)

	typ, id = ix.Link("https://myanimelist.net/anime/42/Unknown", p)
	assert.Nil(t, typ)
	assert.Nil(t, id)
	assert.Contains(t, p.MAL, "42")

	typ, _ = ix.Link("https://myanimelist.net/anime/9/Nope", p)
	assert.Nil(t, typ)
	assert.NotContains(t, p.MAL, "9")
	assert.Equal(t, 1, p.Len())
}

func TestIndexLink_Steam(t *testing.T) {
	ix := NewIndex()
	ix.steam["620"] = struct{}{}
	ix.noMatch[SourceSteam] = map[string]struct{}{"1": {}}
	p := NewPending()

	typ, id := ix.Link("https://store.steampowered.com/app/620/Portal_2/", p)
	require.NotNil(t, typ)
	assert.Equal(t, "steam", *typ)
	assert.Equal(t, "620", *id)

	typ, id = ix.Link("https://store.steampowered.com/app/400/Portal/", p)
	require.NotNil(t, typ)
	assert.Equal(t, "400", *id)
	assert.Contains(t, p.Steam, "400")

	typ, _ = ix.Link("https://store.steampowered.com/app/1/", p)
	assert.Nil(t, typ)
	assert.Equal(t, 1, p.Len())
}

func TestIndexLink_UnrecognisedURL(t *testing.T) {
	p := NewPending()
	typ, id := NewIndex().Link("https://youtu.be/abc", p)
	assert.Nil(t, typ)
	assert.Nil(t, id)
	assert.Zero(t, p.Len())
}

func TestPendingAttach(t *testing.T) {
	ix := NewIndex()
	ix.anilist["1"] = struct{}{}
	p := NewPending()
	slot := Slot{SeasonID: "season_x", ContracteeID: "u1", Type: "Base Contract"}

	ix.Link("https://myanimelist.net/anime/123/Monster", p)
	p.Attach("https://myanimelist.net/anime/123/Monster", slot)
	// Known ids are not queued, so nothing waits on them.
	ix.Link("https://anilist.co/anime/1/", p)
	p.Attach("https://anilist.co/anime/1/", slot)
	p.Attach("https://youtu.be/abc", slot)

	assert.Equal(t, map[Ref][]Slot{{SourceMAL, "123"}: {slot}}, p.Slots)
}
