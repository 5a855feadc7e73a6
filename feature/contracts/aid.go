package contracts

import (
	"fmt"
	"strings"

	"natsumin/core/utils"
	"natsumin/feature/contracts/models"
	"natsumin/feature/identity"
	"natsumin/feature/sheets"
)

type aidTally struct {
	total  int
	passed int
}

// syncAid reconciles aid participants. A user may appear on several rows;
// each occurrence is its own numbered slot. Aid participants who are not yet
// passed are promoted once every one of their aid contracts has passed.
func syncAid(cols aidColumns) procedure {
	return func(p *pass, block sheets.Block) error {
		occurrences := make(map[string]int)
		tallies := make(map[string]*aidTally)
		var order []string

		for _, row := range block.Rows {
			username := identity.Normalize(row.Value(cols.Username, ""))
			if username == "" {
				continue
			}

			userID, err := p.ensureUser(username, false)
			if err != nil {
				return err
			}

			su, err := p.seasonUser(userID)
			if err != nil {
				return err
			}
			if su == nil {
				su = &models.SeasonUser{UserID: userID, Status: models.UserPending, Kind: models.KindAid}
				if err := p.createSeasonUser(su); err != nil {
					return err
				}
			}

			occurrences[userID]++
			contractType := fmt.Sprintf("%s %d", cols.TypePrefix, occurrences[userID])
			status := parseAidStatus(row.Value(cols.Status, ""))

			if su.Kind == models.KindAid && su.Status != models.UserPassed {
				t, seen := tallies[userID]
				if !seen {
					t = &aidTally{}
					tallies[userID] = t
					order = append(order, userID)
				}
				t.total++
				if status == models.ContractPassed {
					t.passed++
				}
			}

			if err := p.syncAidSlot(cols, userID, contractType, status, row); err != nil {
				return err
			}
		}

		for _, userID := range order {
			t := tallies[userID]
			if t.total == 0 || t.passed < t.total {
				continue
			}
			su, err := p.seasonUser(userID)
			if err != nil {
				return err
			}
			c := changes{}
			c.set("status", su.Status, models.UserPassed)
			if err := p.updateSeasonUser(su, c); err != nil {
				return err
			}
		}
		return nil
	}
}

func (p *pass) syncAidSlot(cols aidColumns, userID, contractType string, status models.ContractStatus, row sheets.Row) error {
	mediaType, mediaID := p.link(row.URL(cols.Name), userID, contractType)
	title := row.Value(cols.Name, "")
	name := utils.JoinLines(title, ", ")
	contractor := strings.ToLower(strings.TrimSpace(row.Value(cols.Contractor, "")))
	progress := oneLine(row.Value(cols.Progress, ""))
	rating := row.Value(cols.Rating, "0/10")
	review := row.URL(cols.Review)
	medium := mediumOf(title)

	existing, err := p.contract(userID, contractType)
	if err != nil {
		return err
	}
	if existing == nil {
		return p.createContract(&models.SeasonContract{
			ContracteeID: userID,
			Type:         contractType,
			Name:         name,
			Kind:         models.KindAid,
			Status:       status,
			Contractor:   contractor,
			Progress:     progress,
			Rating:       rating,
			ReviewURL:    review,
			Medium:       medium,
			MediaType:    mediaType,
			MediaID:      mediaID,
		})
	}

	c := changes{}
	c.set("name", existing.Name, name)
	c.set("status", existing.Status, status)
	c.set("contractor", existing.Contractor, contractor)
	c.set("progress", existing.Progress, progress)
	c.set("rating", existing.Rating, rating)
	c.set("review_url", existing.ReviewURL, review)
	c.set("medium", existing.Medium, medium)
	c.setPtr("media_type", existing.MediaType, mediaType)
	c.setPtr("media_id", existing.MediaID, mediaID)
	return p.updateContract(existing, c)
}
