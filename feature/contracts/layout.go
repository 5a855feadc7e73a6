package contracts

import (
	"sort"
	"strings"

	"natsumin/feature/order"
	"natsumin/feature/sheets"
)

// procedure reconciles one sheet block into storage.
type procedure func(p *pass, block sheets.Block) error

// BlockSpec binds a sheet block to the procedure that reconciles it.
type BlockSpec struct {
	// Name labels the block in logs, metrics and results.
	Name string
	// Sheet is the sheet title in the fetched spreadsheet.
	Sheet string
	// Index selects the range when a sheet was fetched in several ranges.
	Index int
	// Required blocks fail the pass when their sheet is missing.
	Required bool

	sync procedure
}

// Layout describes one season's spreadsheet: which ranges to fetch, which
// procedures to run in which order and how contract types are grouped.
type Layout struct {
	ID            string
	SpreadsheetID string
	Ranges        []string
	Blocks        []BlockSpec
	Optional      []string
	Categories    []order.Category
}

// IsOptional reports whether contracts of this type are bonus contracts.
func (l *Layout) IsOptional(contractType string) bool {
	for _, t := range l.Optional {
		if strings.EqualFold(t, contractType) {
			return true
		}
	}
	return false
}

var layouts = map[string]*Layout{
	seasonX.ID: seasonX,
}

// LayoutFor returns the registered layout with this id.
func LayoutFor(id string) (*Layout, bool) {
	l, ok := layouts[id]
	return l, ok
}

// LayoutIDs lists the registered layouts.
func LayoutIDs() []string {
	ids := make([]string, 0, len(layouts))
	for id := range layouts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Column layouts. A negative column means the field is not read from the row.

const none = -1

// DashboardSlot maps a dashboard column to a contract type and the column
// holding that contract's status.
type DashboardSlot struct {
	Column       int
	Type         string
	StatusColumn int
}

type dashboardColumns struct {
	Status   int
	Username int
	Slots    []DashboardSlot
}

// slotColumns locates the freeform fields of one contract type on a row.
type slotColumns struct {
	Type              string
	Contractor        int
	DefaultContractor string
	Progress          int
	ProgressDefault   string
	Rating            int
	Review            int
	// Medium is read from a "Title (Medium)" cell unless RawMedium is set.
	Medium      int
	RawMedium   bool
	FixedMedium string
}

type baseColumns struct {
	Rep             int
	Username        int
	Contractor      int
	ListURL         int
	AcceptingManhwa int
	AcceptingLN     int
	Veto            int
	Preferences     int
	Bans            int
	Slots           []slotColumns
}

type fixedContractColumns struct {
	Type       string
	Name       string
	Contractor string
	Medium     string
	Status     int
	Username   int
	Rating     int
	Review     int
}

type arcanaColumns struct {
	TypePrefix   string
	Contractor   string
	Placeholder  string
	Status       int
	Binding      int
	Username     int
	Quests       int
	SoulQuota    int
	MinimumQuest int
	Rating       int
	Review       int
}

type aidColumns struct {
	TypePrefix string
	Status     int
	Username   int
	Contractor int
	Rating     int
	Progress   int
	Name       int
	Review     int
}
