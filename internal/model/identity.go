package model

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// IDStrategy derives the favorites identifier of a performance.
type IDStrategy interface {
	ID(p Performance) string
	Name() string
}

type nameStage struct{}

func (nameStage) Name() string { return "name_stage" }

func (nameStage) ID(p Performance) string {
	return strings.ReplaceAll(strings.ToLower(p.Name+"-"+p.Stage.Label()), " ", "-")
}

type slot struct{}

func (slot) Name() string { return "slot" }

// ID includes day and start so repeat sets by the same act stay distinct.
func (slot) ID(p Performance) string {
	return slug.Make(fmt.Sprintf("%s %s %s %02d%02d",
		p.Name, p.Stage.Key(), p.Day.Key(), p.Start.Hour(), p.Start.Minute()))
}

var (
	// NameStageIDs keys on name and stage only. Repeat sets collide.
	NameStageIDs IDStrategy = nameStage{}
	// SlotIDs keys on name, stage, day and start time.
	SlotIDs IDStrategy = slot{}
)

// ParseIDStrategy maps a config value to a strategy. Empty means name_stage.
func ParseIDStrategy(v string) (IDStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "name_stage":
		return NameStageIDs, nil
	case "slot":
		return SlotIDs, nil
	default:
		return nil, fmt.Errorf("model: unknown identity strategy %q", v)
	}
}
