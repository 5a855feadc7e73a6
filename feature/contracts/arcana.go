package contracts

import (
	"fmt"
	"regexp"
	"strings"

	"natsumin/core/utils"
	"natsumin/feature/contracts/models"
	"natsumin/feature/identity"
	"natsumin/feature/sheets"
)

type arcanaRowKind int

const (
	arcanaEmpty arcanaRowKind = iota
	arcanaHeader
	arcanaContract
)

var questCountPattern = regexp.MustCompile(`^(\d+)/(\d+)`)

func (cols arcanaColumns) kindOf(row sheets.Row) arcanaRowKind {
	binding := strings.TrimSpace(row.Value(cols.Binding, ""))
	user := strings.TrimSpace(row.Value(cols.Username, ""))
	quests := strings.TrimSpace(row.Value(cols.Quests, ""))

	switch {
	case binding == "" && quests != "":
		return arcanaContract
	case binding != "" && user != "":
		return arcanaHeader
	default:
		return arcanaEmpty
	}
}

// questCount reads the completed count from an "n/m" cell.
func questCount(value string) int {
	m := questCountPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0
	}
	return utils.ToInt(m[1], 0)
}

// syncArcana walks user header rows, each followed by that user's quest rows.
// Quests are numbered per user in sheet order. A user below quota gets their
// chosen minimum quest, or a placeholder, as the first slot. The first empty
// row ends the block. The quests of a user that does not resolve are dropped
// with the header and counted once.
func syncArcana(cols arcanaColumns) procedure {
	return func(p *pass, block sheets.Block) error {
		rows := block.Rows
		for i := 0; i < len(rows); {
			switch cols.kindOf(rows[i]) {
			case arcanaEmpty:
				return nil
			case arcanaContract:
				p.skip("quest without header", "")
				i++
				continue
			}

			header := rows[i]
			i++

			username := identity.Normalize(header.Value(cols.Username, ""))
			userID, ok, err := p.lookup(username)
			if err != nil {
				return err
			}
			if ok {
				su, err := p.seasonUser(userID)
				if err != nil {
					return err
				}
				ok = su != nil
			}
			if !ok {
				p.skip("unresolved user", username)
				for i < len(rows) && cols.kindOf(rows[i]) == arcanaContract {
					i++
				}
				continue
			}

			slot := 0
			quota := utils.ToInt(header.Value(cols.SoulQuota, "0"), 0)
			if questCount(header.Value(cols.Quests, "0/14")) < quota {
				name := utils.JoinLines(header.Value(cols.MinimumQuest, ""), ", ")
				if name == "" {
					name = cols.Placeholder
				}
				slot++
				if err := p.syncArcanaSlot(cols, userID, slot, name, header); err != nil {
					return err
				}
			}

			for ; i < len(rows) && cols.kindOf(rows[i]) == arcanaContract; i++ {
				row := rows[i]
				name := utils.JoinLines(row.Value(cols.Quests, ""), ", ")
				soul := strings.TrimSpace(row.Value(cols.SoulQuota, ""))
				if name == "" || soul == "" || soul == "N/A" {
					continue
				}
				slot++
				if err := p.syncArcanaSlot(cols, userID, slot, name, row); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

func (p *pass) syncArcanaSlot(cols arcanaColumns, userID string, slot int, name string, row sheets.Row) error {
	contractType := fmt.Sprintf("%s %d", cols.TypePrefix, slot)
	status := parseArcanaStatus(row.Value(cols.Status, ""))
	rating := row.Value(cols.Rating, "0/10")
	review := row.URL(cols.Review)
	medium := mediumOf(name)

	existing, err := p.contract(userID, contractType)
	if err != nil {
		return err
	}
	if existing == nil {
		return p.createContract(&models.SeasonContract{
			ContracteeID: userID,
			Type:         contractType,
			Name:         name,
			Kind:         models.KindNormal,
			Status:       status,
			Contractor:   cols.Contractor,
			Rating:       rating,
			ReviewURL:    review,
			Medium:       medium,
		})
	}

	c := changes{}
	c.set("name", existing.Name, name)
	c.set("status", existing.Status, status)
	c.set("rating", existing.Rating, rating)
	c.set("review_url", existing.ReviewURL, review)
	c.set("medium", existing.Medium, medium)
	return p.updateContract(existing, c)
}
