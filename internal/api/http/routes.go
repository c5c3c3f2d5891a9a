package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/mjelle/snowwatch/internal/geocode"
	"github.com/mjelle/snowwatch/internal/notify"
	"github.com/mjelle/snowwatch/internal/observability"
	"github.com/mjelle/snowwatch/internal/snow"
	"github.com/mjelle/snowwatch/internal/state"
)

var validate = validator.New()

// Refresher triggers a background forecast refresh.
type Refresher interface {
	TriggerRefresh()
}

// Deps carries everything the HTTP handlers need.
type Deps struct {
	Store     *state.Store
	Refresher Refresher
	Geocoder  geocode.Geocoder
	Notifier  notify.Notifier
	Metrics   *observability.Metrics
	Clock     clockwork.Clock
	Logger    *zap.SugaredLogger
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	// Forecast and status.

	v1.Get("/weather", func(c *fiber.Ctx) error {
		st := deps.Store.State()
		if st.Weather == nil {
			return fiber.NewError(fiber.StatusNotFound, "no forecast available yet")
		}
		return c.JSON(fiber.Map{
			"weather":    st.Weather,
			"lastError":  st.LastError,
			"refreshing": st.Refreshing,
		})
	})

	v1.Get("/status", func(c *fiber.Ctx) error {
		st := deps.Store.State()
		if st.Weather == nil {
			return fiber.NewError(fiber.StatusNotFound, "no forecast available yet")
		}

		accumulated := snow.Accumulate(st.Weather.Hourly, snow.StatusWindowHours, deps.Clock.Now())
		return c.JSON(fiber.Map{
			"accumulated": accumulated,
			"threshold":   st.Settings.SnowThreshold,
			"level":       snow.Classify(accumulated, st.Settings.SnowThreshold),
			"condition":   snow.ConditionCategory(st.Weather.Current.SymbolCode),
			"updatedAt":   st.Weather.UpdatedAt,
		})
	})

	v1.Get("/weather/accumulation", func(c *fiber.Ctx) error {
		hours := c.QueryInt("hours", snow.StatusWindowHours)
		if hours < 1 || hours > snow.MaxForecastHours {
			return fiber.NewError(fiber.StatusBadRequest, "hours must be between 1 and 48")
		}

		st := deps.Store.State()
		if st.Weather == nil {
			return fiber.NewError(fiber.StatusNotFound, "no forecast available yet")
		}

		return c.JSON(fiber.Map{
			"hours":       hours,
			"accumulated": snow.Accumulate(st.Weather.Hourly, hours, deps.Clock.Now()),
		})
	})

	v1.Post("/refresh", func(c *fiber.Ctx) error {
		deps.Refresher.TriggerRefresh()
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "refresh scheduled"})
	})

	// Settings.

	v1.Get("/settings", func(c *fiber.Ctx) error {
		return c.JSON(deps.Store.State().Settings)
	})

	v1.Put("/settings", func(c *fiber.Ctx) error {
		var s snow.Settings
		if err := c.BodyParser(&s); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid settings payload")
		}
		if err := validate.Struct(s); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := deps.Store.Dispatch(state.SettingsUpdated{Settings: s}); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save settings")
		}

		// A location or threshold change should show up without waiting for
		// the next scheduled tick.
		deps.Refresher.TriggerRefresh()
		return c.JSON(s)
	})

	// Clearing history.

	v1.Get("/history", func(c *fiber.Ctx) error {
		return c.JSON(deps.Store.State().History)
	})

	v1.Post("/history", func(c *fiber.Ctx) error {
		var req historyRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid history payload")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		entry := req.toEntry(deps.Clock.Now())
		if err := deps.Store.Dispatch(state.HistoryAdded{Entry: entry}); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save history entry")
		}
		return c.Status(fiber.StatusCreated).JSON(entry)
	})

	v1.Delete("/history/:id", func(c *fiber.Ctx) error {
		if err := deps.Store.Dispatch(state.HistoryDeleted{ID: c.Params("id")}); err != nil {
			if errors.Is(err, state.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "history entry not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to delete history entry")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	// Contractors.

	v1.Get("/contractors", func(c *fiber.Ctx) error {
		return c.JSON(deps.Store.State().Contractors)
	})

	v1.Post("/contractors", func(c *fiber.Ctx) error {
		var req contractorRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid contractor payload")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		contractor := req.toContractor(uuid.NewString())
		if err := deps.Store.Dispatch(state.ContractorAdded{Contractor: contractor}); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save contractor")
		}

		// The store may promote the first contractor to primary; return what
		// was actually stored.
		created, _ := findContractor(deps.Store.State().Contractors, contractor.ID)
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	v1.Put("/contractors/:id", func(c *fiber.Ctx) error {
		var req contractorRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid contractor payload")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		contractor := req.toContractor(c.Params("id"))
		if err := deps.Store.Dispatch(state.ContractorUpdated{Contractor: contractor}); err != nil {
			if errors.Is(err, state.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "contractor not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to update contractor")
		}

		updated, _ := findContractor(deps.Store.State().Contractors, contractor.ID)
		return c.JSON(updated)
	})

	v1.Delete("/contractors/:id", func(c *fiber.Ctx) error {
		if err := deps.Store.Dispatch(state.ContractorDeleted{ID: c.Params("id")}); err != nil {
			if errors.Is(err, state.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "contractor not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to delete contractor")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Post("/contractors/:id/primary", func(c *fiber.Ctx) error {
		if err := deps.Store.Dispatch(state.PrimaryContractorSet{ID: c.Params("id")}); err != nil {
			if errors.Is(err, state.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "contractor not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to set primary contractor")
		}
		return c.JSON(deps.Store.State().Contractors)
	})

	// Place search. Lookup failures degrade to an empty list so the settings
	// form keeps working while the geocoder is down.

	v1.Get("/places", func(c *fiber.Ctx) error {
		places, err := deps.Geocoder.Search(c.UserContext(), c.Query("q"))
		if err != nil {
			deps.Logger.Warnw("place search failed", "error", err)
			deps.Metrics.GeocodeRequests.WithLabelValues("error").Inc()
			return c.JSON([]geocode.Place{})
		}
		if len(places) == 0 {
			deps.Metrics.GeocodeRequests.WithLabelValues("empty").Inc()
			return c.JSON([]geocode.Place{})
		}
		deps.Metrics.GeocodeRequests.WithLabelValues("success").Inc()
		return c.JSON(places)
	})

	// Notifications.

	v1.Post("/notifications/test", func(c *fiber.Ctx) error {
		if err := deps.Notifier.Send(c.UserContext(), "Test notification", "Snow alerts are working"); err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "notification backend unavailable")
		}
		return c.JSON(fiber.Map{"status": "sent"})
	})
}

// historyRequest holds the body for creating a clearing-history entry.
type historyRequest struct {
	Timestamp  time.Time `json:"timestamp"`
	SnowDepth  *float64  `json:"snowDepth" validate:"omitempty,gte=0"`
	Comment    string    `json:"comment"`
	Contractor string    `json:"contractor"`
}

func (r historyRequest) toEntry(now time.Time) snow.SnowEntry {
	ts := r.Timestamp
	if ts.IsZero() {
		ts = now
	}
	return snow.SnowEntry{
		ID:         uuid.NewString(),
		Timestamp:  ts,
		SnowDepth:  r.SnowDepth,
		Comment:    r.Comment,
		Contractor: r.Contractor,
	}
}

// contractorRequest holds the body for creating or updating a contractor.
type contractorRequest struct {
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	IsPrimary bool   `json:"isPrimary"`
}

func (r contractorRequest) toContractor(id string) snow.Contractor {
	return snow.Contractor{
		ID:        id,
		Name:      r.Name,
		Phone:     r.Phone,
		Email:     r.Email,
		IsPrimary: r.IsPrimary,
	}
}

func findContractor(contractors []snow.Contractor, id string) (snow.Contractor, bool) {
	for _, c := range contractors {
		if c.ID == id {
			return c, true
		}
	}
	return snow.Contractor{}, false
}
