package game

import "github.com/lox/handrecorder/internal/chips"

// Contributions holds one chip total per seat, indexed by Position.
type Contributions [NumPositions]chips.Chips

// Of returns the contribution of p.
func (c Contributions) Of(p Position) chips.Chips {
	return c[p]
}

// Sum returns the total across all seats.
func (c Contributions) Sum() chips.Chips {
	var total chips.Chips
	for _, v := range c {
		total += v
	}
	return total
}

// Max returns the largest single contribution.
func (c Contributions) Max() chips.Chips {
	var top chips.Chips
	for _, v := range c {
		top = chips.Max(top, v)
	}
	return top
}

// TotalContributions returns what each seat has put in over the whole hand,
// posted blinds included.
func TotalContributions(actions []ActionRecord) Contributions {
	var c Contributions
	for _, a := range actions {
		c[a.Position] += a.Amount()
	}
	return c
}

// StreetContributions returns what each seat has put in on one street.
func StreetContributions(actions []ActionRecord, street Street) Contributions {
	var c Contributions
	for _, a := range actions {
		if a.Street == street {
			c[a.Position] += a.Amount()
		}
	}
	return c
}

// CurrentPot returns every chip committed so far.
func CurrentPot(actions []ActionRecord) chips.Chips {
	var pot chips.Chips
	for _, a := range actions {
		pot += a.Amount()
	}
	return pot
}

// PotBeforeStreet returns the pot as it stood when street began.
func PotBeforeStreet(actions []ActionRecord, street Street) chips.Chips {
	var pot chips.Chips
	for _, a := range actions {
		if a.Street < street {
			pot += a.Amount()
		}
	}
	return pot
}

// PotIncreaseThisStreet returns the chips added during street.
func PotIncreaseThisStreet(actions []ActionRecord, street Street) chips.Chips {
	return StreetContributions(actions, street).Sum()
}

// PostedBlinds returns the chips posted as forced blinds.
func PostedBlinds(actions []ActionRecord) chips.Chips {
	var posted chips.Chips
	for _, a := range actions {
		if a.Kind == PostBlind {
			posted += a.Amount()
		}
	}
	return posted
}
