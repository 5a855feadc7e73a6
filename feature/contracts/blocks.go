package contracts

import (
	"strings"

	"natsumin/core/utils"
	"natsumin/feature/contracts/models"
	"natsumin/feature/identity"
	"natsumin/feature/rep"
	"natsumin/feature/sheets"
)

// syncDashboard establishes season participation. It is the only block that
// creates normal participants and their contract slots.
func syncDashboard(cols dashboardColumns) procedure {
	return func(p *pass, block sheets.Block) error {
		for _, row := range block.Rows {
			username := identity.Normalize(row.Value(cols.Username, ""))
			if username == "" {
				continue
			}

			userID, err := p.ensureUser(username, true)
			if err != nil {
				return err
			}

			status := parseUserStatus(row.Value(cols.Status, ""))
			su, err := p.seasonUser(userID)
			if err != nil {
				return err
			}
			if su == nil {
				if err := p.createSeasonUser(&models.SeasonUser{UserID: userID, Status: status, Kind: models.KindNormal}); err != nil {
					return err
				}
			} else {
				c := changes{}
				c.set("status", su.Status, status)
				if err := p.updateSeasonUser(su, c); err != nil {
					return err
				}
			}

			for _, slot := range cols.Slots {
				if err := p.syncDashboardSlot(userID, row, slot); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

func (p *pass) syncDashboardSlot(userID string, row sheets.Row, slot DashboardSlot) error {
	cell := row.Cell(slot.Column)
	name := contractName(utils.Deref(cell.Value))
	if name == "" || name == "-" {
		return nil
	}

	status := parseContractStatus(row.Value(slot.StatusColumn, ""))
	mediaType, mediaID := p.link(cell.Hyperlink, userID, slot.Type)

	existing, err := p.contract(userID, slot.Type)
	if err != nil {
		return err
	}
	if existing == nil {
		return p.createContract(&models.SeasonContract{
			ContracteeID: userID,
			Type:         slot.Type,
			Name:         name,
			Kind:         models.KindNormal,
			Status:       status,
			MediaType:    mediaType,
			MediaID:      mediaID,
		})
	}

	c := changes{}
	c.set("status", existing.Status, status)
	c.set("name", existing.Name, name)
	c.setPtr("media_type", existing.MediaType, mediaType)
	c.setPtr("media_id", existing.MediaID, mediaID)
	return p.updateContract(existing, c)
}

// syncBase updates relationship fields of existing participants and the
// freeform fields of their primary contracts.
func syncBase(cols baseColumns) procedure {
	return func(p *pass, block sheets.Block) error {
		for _, row := range block.Rows {
			username := identity.Normalize(row.Value(cols.Username, ""))
			if username == "" {
				continue
			}

			userID, ok, err := p.lookup(username)
			if err != nil {
				return err
			}
			if !ok {
				p.skip("unresolved user", username)
				continue
			}

			su, err := p.seasonUser(userID)
			if err != nil {
				return err
			}
			if su == nil {
				p.skip("not in season", username)
				continue
			}

			contractorID, err := p.seasonContractor(identity.Normalize(row.Value(cols.Contractor, "")))
			if err != nil {
				return err
			}

			var repName *string
			if r, _, ok := rep.Classify(row.Value(cols.Rep, ""), p.repOpts...); ok {
				repName = utils.Ptr(string(r))
			}

			c := changes{}
			c.setPtr("contractor_id", su.ContractorID, contractorID)
			c.setPtr("rep", su.Rep, repName)
			c.set("list_url", su.ListURL, row.URL(cols.ListURL))
			c.set("veto_used", su.VetoUsed, utils.ToBool(row.Value(cols.Veto, "")))
			c.set("preferences", su.Preferences, utils.JoinLines(row.Value(cols.Preferences, "N/A"), ", "))
			c.set("bans", su.Bans, utils.JoinLines(row.Value(cols.Bans, "N/A"), ", "))
			c.set("accepting_manhwa", su.AcceptingManhwa, utils.ToBool(row.Value(cols.AcceptingManhwa, "")))
			c.set("accepting_ln", su.AcceptingLN, utils.ToBool(row.Value(cols.AcceptingLN, "")))
			if err := p.updateSeasonUser(su, c); err != nil {
				return err
			}

			if err := p.updateUserRep(userID, repName); err != nil {
				return err
			}

			for _, slot := range cols.Slots {
				if _, err := p.updateSlot(userID, row, slot); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

// seasonContractor returns the contractor's user id when the contractor is a
// known participant of this season.
func (p *pass) seasonContractor(username string) (*string, error) {
	userID, ok, err := p.lookup(username)
	if err != nil || !ok {
		return nil, err
	}
	su, err := p.seasonUser(userID)
	if err != nil || su == nil {
		return nil, err
	}
	return &userID, nil
}

// syncSlots updates contracts the dashboard already created. Rows whose user
// does not resolve or has none of the slots are skipped.
func syncSlots(userColumn int, slots ...slotColumns) procedure {
	return func(p *pass, block sheets.Block) error {
		for _, row := range block.Rows {
			username := identity.Normalize(row.Value(userColumn, ""))
			if username == "" {
				continue
			}

			userID, ok, err := p.lookup(username)
			if err != nil {
				return err
			}
			if !ok {
				p.skip("unresolved user", username)
				continue
			}

			found := false
			for _, slot := range slots {
				hit, err := p.updateSlot(userID, row, slot)
				if err != nil {
					return err
				}
				found = found || hit
			}
			if !found {
				p.skip("no contract", username)
			}
		}
		return nil
	}
}

// updateSlot diffs the freeform fields of one existing contract. It reports
// whether the contract exists.
func (p *pass) updateSlot(userID string, row sheets.Row, slot slotColumns) (bool, error) {
	existing, err := p.contract(userID, slot.Type)
	if err != nil || existing == nil {
		return false, err
	}

	contractor := slot.DefaultContractor
	if slot.Contractor != none {
		contractor = strings.ToLower(strings.TrimSpace(row.Value(slot.Contractor, slot.DefaultContractor)))
	}

	medium := slot.FixedMedium
	switch {
	case slot.Medium == none:
	case slot.RawMedium:
		medium = row.Value(slot.Medium, "")
	default:
		medium = mediumOf(row.Value(slot.Medium, ""))
	}

	c := changes{}
	c.set("contractor", existing.Contractor, contractor)
	if slot.Progress != none {
		c.set("progress", existing.Progress, oneLine(row.Value(slot.Progress, slot.ProgressDefault)))
	}
	c.set("rating", existing.Rating, row.Value(slot.Rating, "0/10"))
	c.set("review_url", existing.ReviewURL, row.URL(slot.Review))
	c.set("medium", existing.Medium, medium)
	return true, p.updateContract(existing, c)
}

// syncFixedContract handles event blocks whose contract has a fixed title.
// These create their slot on first sighting.
func syncFixedContract(cols fixedContractColumns) procedure {
	return func(p *pass, block sheets.Block) error {
		for _, row := range block.Rows {
			username := identity.Normalize(row.Value(cols.Username, ""))
			if username == "" {
				continue
			}

			userID, ok, err := p.lookup(username)
			if err != nil {
				return err
			}
			if !ok {
				p.skip("unresolved user", username)
				continue
			}

			status := parseContractStatus(row.Value(cols.Status, ""))
			rating := row.Value(cols.Rating, "0/10")
			review := row.URL(cols.Review)

			existing, err := p.contract(userID, cols.Type)
			if err != nil {
				return err
			}
			if existing == nil {
				err := p.createContract(&models.SeasonContract{
					ContracteeID: userID,
					Type:         cols.Type,
					Name:         cols.Name,
					Kind:         models.KindNormal,
					Status:       status,
					Contractor:   cols.Contractor,
					Rating:       rating,
					ReviewURL:    review,
					Medium:       cols.Medium,
				})
				if err != nil {
					return err
				}
				continue
			}

			c := changes{}
			c.set("status", existing.Status, status)
			c.set("contractor", existing.Contractor, cols.Contractor)
			c.set("rating", existing.Rating, rating)
			c.set("review_url", existing.ReviewURL, review)
			c.set("medium", existing.Medium, cols.Medium)
			if err := p.updateContract(existing, c); err != nil {
				return err
			}
		}
		return nil
	}
}
