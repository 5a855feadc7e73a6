package contracts

import "natsumin/feature/order"

const frazzleDazzle = "frazzle_dazzle"

var seasonX = &Layout{
	ID:            "season_x",
	SpreadsheetID: "1ZuhNuejQ3gTKuZPzkGg47-upLUlcgNfdW2Jrpeq8cak",
	Ranges: []string{
		"Dashboard!A2:AC508",
		"Base!A2:AI516",
		"Duality Special!A2:K291",
		"Veteran Special!A2:J280",
		"Epoch Special!A2:K237",
		"Honzuki Special!A2:I171",
		"Aria Special!A2:G149",
		"Arcana Special!A2:N1539",
		"Buddying!A2:N100",
		"Sumira's Challenge!A2:F508",
		"Hitome's Challenge!A2:F508",
		"Sae's Challenge!A2:F508",
		"Christmas Challenge!A2:E36",
		"Aid Parade!A4:H106",
	},
	Optional: []string{"Aria Special", "Sumira's Challenge", "Hitome's Challenge", "Sae's Challenge", "Christmas Challenge"},
	Categories: []order.Category{
		{Name: "Main", Rules: []order.Rule{order.Literal("Base Contract"), order.Literal("Challenge Contract")}},
		{Name: "Specials", Rules: []order.Rule{
			order.Literal("Veteran Special"),
			order.Literal("Duality Special"),
			order.Literal("Epoch Special"),
			order.Literal("Honzuki Special"),
			order.Literal("Aria Special"),
		}},
		{Name: "Buddies", Rules: []order.Rule{order.Literal("Base Buddy"), order.Literal("Challenge Buddy")}},
		{Name: "Challenges", Rules: []order.Rule{
			order.Literal("Sumira's Challenge"),
			order.Literal("Hitome's Challenge"),
			order.Literal("Sae's Challenge"),
			order.Literal("Christmas Challenge"),
		}},
		{Name: "Arcana", Rules: []order.Rule{order.Pattern(`Arcana Special \d+`, true)}},
		{Name: "Aid", Rules: []order.Rule{order.Pattern(`Aid Contract \d+`, true)}},
	},
	Blocks: []BlockSpec{
		{Name: "dashboard", Sheet: "Dashboard", Required: true, sync: syncDashboard(dashboardColumns{
			Status:   0,
			Username: 1,
			Slots: []DashboardSlot{
				{2, "Base Contract", 15},
				{3, "Challenge Contract", 16},
				{4, "Veteran Special", 17},
				{5, "Duality Special", 18},
				{6, "Epoch Special", 19},
				{7, "Honzuki Special", 20},
				{8, "Aria Special", 21},
				{10, "Base Buddy", 22},
				{11, "Challenge Buddy", 23},
				{12, "Sumira's Challenge", 24},
				{13, "Hitome's Challenge", 25},
				{14, "Sae's Challenge", 27},
			},
		})},
		{Name: "base", Sheet: "Base", sync: syncBase(baseColumns{
			Rep:             2,
			Username:        3,
			Contractor:      5,
			ListURL:         8,
			AcceptingManhwa: 9,
			AcceptingLN:     10,
			Veto:            12,
			Preferences:     26,
			Bans:            27,
			Slots: []slotColumns{
				{Type: "Base Contract", Contractor: 5, Progress: 19, ProgressDefault: "?/?", Rating: 20, Review: 24, Medium: 7, RawMedium: true},
				{Type: "Challenge Contract", Contractor: 5, Progress: 22, ProgressDefault: "?/?", Rating: 23, Review: 25, Medium: 15, RawMedium: true},
			},
		})},
		{Name: "duality", Sheet: "Duality Special", sync: syncSlots(3, slotColumns{
			Type: "Duality Special", Contractor: 6, DefaultContractor: frazzleDazzle, Progress: 8, Rating: 9, Review: 10, Medium: 4,
		})},
		{Name: "veteran", Sheet: "Veteran Special", sync: syncSlots(3, slotColumns{
			Type: "Veteran Special", Contractor: 5, Progress: 7, Rating: 8, Review: 9, Medium: 4,
		})},
		{Name: "epoch", Sheet: "Epoch Special", sync: syncSlots(3, slotColumns{
			Type: "Epoch Special", Contractor: 6, DefaultContractor: frazzleDazzle, Progress: 8, Rating: 9, Review: 10, Medium: 4,
		})},
		{Name: "honzuki", Sheet: "Honzuki Special", sync: syncSlots(3, slotColumns{
			Type: "Honzuki Special", Contractor: none, DefaultContractor: frazzleDazzle, Progress: 6, Rating: 7, Review: 8, Medium: none, FixedMedium: "LN",
		})},
		{Name: "aria", Sheet: "Aria Special", sync: syncSlots(2, slotColumns{
			Type: "Aria Special", Contractor: 4, Progress: none, Rating: 5, Review: 6, Medium: none, FixedMedium: "Game",
		})},
		{Name: "sumira", Sheet: "Sumira's Challenge", sync: syncSlots(2, slotColumns{
			Type: "Sumira's Challenge", Contractor: none, DefaultContractor: frazzleDazzle, Progress: none, Rating: 4, Review: 5, Medium: none, FixedMedium: "Manga",
		})},
		{Name: "hitome", Sheet: "Hitome's Challenge", sync: syncSlots(2, slotColumns{
			Type: "Hitome's Challenge", Contractor: none, DefaultContractor: frazzleDazzle, Progress: none, Rating: 4, Review: 5, Medium: none, FixedMedium: "Movie",
		})},
		{Name: "sae", Sheet: "Sae's Challenge", sync: syncSlots(2, slotColumns{
			Type: "Sae's Challenge", Contractor: none, DefaultContractor: frazzleDazzle, Progress: none, Rating: 4, Review: 5, Medium: none, FixedMedium: "Cooking",
		})},
		{Name: "christmas", Sheet: "Christmas Challenge", sync: syncFixedContract(fixedContractColumns{
			Type:       "Christmas Challenge",
			Name:       "Tokyo Godfathers",
			Contractor: frazzleDazzle,
			Medium:     "Movie",
			Status:     0,
			Username:   2,
			Rating:     3,
			Review:     4,
		})},
		{Name: "buddies", Sheet: "Buddying", sync: syncSlots(2,
			slotColumns{Type: "Base Buddy", Contractor: 4, Progress: 8, Rating: 10, Review: 12, Medium: 5},
			slotColumns{Type: "Challenge Buddy", Contractor: 6, Progress: 9, Rating: 11, Review: 13, Medium: 7},
		)},
		{Name: "arcana", Sheet: "Arcana Special", sync: syncArcana(arcanaColumns{
			TypePrefix:   "Arcana Special",
			Contractor:   frazzleDazzle,
			Placeholder:  "PLEASE SELECT",
			Status:       0,
			Binding:      1,
			Username:     3,
			Quests:       4,
			SoulQuota:    5,
			MinimumQuest: 7,
			Rating:       12,
			Review:       13,
		})},
		{Name: "aid", Sheet: "Aid Parade", sync: syncAid(aidColumns{
			TypePrefix: "Aid Contract",
			Status:     0,
			Username:   1,
			Contractor: 3,
			Rating:     4,
			Progress:   5,
			Name:       6,
			Review:     7,
		})},
	},
}
