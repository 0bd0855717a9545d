package api

import (
	"github.com/lysyi3m/neo-comb/app/auth"
	"github.com/lysyi3m/neo-comb/app/dashboard"
	"github.com/lysyi3m/neo-comb/app/neo"
	"github.com/lysyi3m/neo-comb/app/tasks"
)

type GeneratorInterface interface {
	Run(title, link string, items []neo.Summary) (string, error)
}

var _ GeneratorInterface = (*neo.Generator)(nil)

type Handler struct {
	registry  *dashboard.Registry
	auth      auth.Authenticator
	sessions  *auth.Sessions
	presets   *neo.PresetCache
	scheduler tasks.TaskSchedulerInterface
	generator GeneratorInterface
	baseURL   string
	version   string
}

type signInResponse struct {
	Token string     `json:"token"`
	User  *auth.User `json:"user"`
}

// neoDetail is the single-object page: the normalized record plus the
// display strings the listing cards show.
type neoDetail struct {
	neo.Summary
	DisplayName      string `json:"display_name"`
	SizeCategory     string `json:"size_category"`
	DistanceCategory string `json:"distance_category"`
	Diameter         string `json:"diameter"`
	Distance         string `json:"distance,omitempty"`
	Velocity         string `json:"velocity,omitempty"`
	Selected         bool   `json:"selected"`
}
