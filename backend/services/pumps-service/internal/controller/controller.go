// Package controller runs map commands for one client: it owns the client's filter criteria
// and view and re-renders them from the shared pump store.
package controller

import (
	"strings"
	"sync"

	"fueltracker/backend/services/pumps-service/internal/mapview"
	"fueltracker/backend/services/pumps-service/internal/models"
)

// PumpSource is the read side of the pump store.
type PumpSource interface {
	Filter(criteria models.FilterCriteria) []models.PumpRecord
}

// Result describes the outcome of a command.
type Result struct {
	Count    int                   `json:"count"`
	Summary  string                `json:"summary"`
	Criteria models.FilterCriteria `json:"criteria"`
	Rendered bool                  `json:"rendered"`
}

// Controller is the owning context of one map client.
type Controller struct {
	mu       sync.Mutex
	user     *models.Actor
	criteria models.FilterCriteria
	pumps    PumpSource
	view     *mapview.View
}

// New returns a controller showing every pump. user may be nil for anonymous clients.
func New(pumps PumpSource, view *mapview.View, user *models.Actor) *Controller {
	return &Controller{
		user:     user,
		criteria: models.AllPumps(),
		pumps:    pumps,
		view:     view,
	}
}

// User returns the client's identity, if any.
func (c *Controller) User() *models.Actor {
	return c.user
}

// Criteria returns the active filter.
func (c *Controller) Criteria() models.FilterCriteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria
}

// SelectFuel applies a fuel filter within the current district.
func (c *Controller) SelectFuel(fuel models.FuelType) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria.FuelType = fuel
	return c.render()
}

// SelectDistrict switches district and resets the fuel filter to all.
func (c *Controller) SelectDistrict(district string) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria = models.FilterCriteria{District: strings.TrimSpace(district), FuelType: models.FuelAll}
	return c.render()
}

// Apply sets both filters at once.
func (c *Controller) Apply(criteria models.FilterCriteria) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria = criteria
	return c.render()
}

// Refresh redraws the current filter, e.g. after the collection changed.
func (c *Controller) Refresh() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.render()
}

// Locate forwards a resolved geolocation to the view.
func (c *Controller) Locate(lat, lng float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view.LocateUser(lat, lng)
}

// Do runs fn with exclusive access, for reading surface state consistent with the last result.
func (c *Controller) Do(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
}

func (c *Controller) render() Result {
	c.criteria = c.criteria.Normalize()
	pumps := c.pumps.Filter(c.criteria)
	rendered := c.view.Render(pumps)
	return Result{
		Count:    len(pumps),
		Summary:  c.criteria.Summary(len(pumps)),
		Criteria: c.criteria,
		Rendered: rendered,
	}
}
