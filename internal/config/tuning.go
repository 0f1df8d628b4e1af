// Package config holds the engine tuning parameters. All ambient constants
// (tick rate, projectile speed, staleness window, hysteresis length, gains)
// live here and are passed to components at construction so tests can vary
// them independently.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Estimator selects the velocity estimator applied to track measurement
// updates.
const (
	EstimatorDifference = "difference" // one-step differencing smoother
	EstimatorKalman     = "kalman"     // constant-velocity Kalman filter
)

// Tuning represents the engine tuning file. Every field is optional in the
// JSON; the Get* methods supply defaults for fields left nil, so partial
// configs are safe.
type Tuning struct {
	// Timebase
	TicksPerSecond *float64 `json:"ticks_per_second,omitempty"`

	// Weapons
	ProjectileSpeedMps *float64 `json:"projectile_speed_mps,omitempty"`
	FireRangeM         *float64 `json:"fire_range_m,omitempty"`

	// Tracker params
	GateRadiusM       *float64 `json:"gate_radius_m,omitempty"`
	StalenessTicks    *int     `json:"staleness_ticks,omitempty"`
	Estimator         *string  `json:"estimator,omitempty"`
	ProcessNoisePos   *float64 `json:"process_noise_pos,omitempty"`
	ProcessNoiseVel   *float64 `json:"process_noise_vel,omitempty"`
	MeasurementNoise  *float64 `json:"measurement_noise,omitempty"`
	LostContactTicks  *int     `json:"lost_contact_ticks,omitempty"`
	StickyTargetTicks *int     `json:"sticky_target_ticks,omitempty"`

	// Turn controller params
	CoarseTurnGain  *float64 `json:"coarse_turn_gain,omitempty"`
	FineTurnGain    *float64 `json:"fine_turn_gain,omitempty"`
	AimToleranceRad *float64 `json:"aim_tolerance_rad,omitempty"`

	// Sensor sweep params
	SearchBeamWidthRad    *float64 `json:"search_beam_width_rad,omitempty"`
	SearchMinRangeM       *float64 `json:"search_min_range_m,omitempty"`
	SearchMaxRangeM       *float64 `json:"search_max_range_m,omitempty"`
	LongRangeBeamWidthRad *float64 `json:"long_range_beam_width_rad,omitempty"`
	LongRangeMaxRangeM    *float64 `json:"long_range_max_range_m,omitempty"`
}

// EmptyTuning returns a Tuning with all fields set to nil, meaning every
// accessor reports its default.
func EmptyTuning() *Tuning {
	return &Tuning{}
}

// LoadTuning loads a Tuning from a JSON file. The file must have a .json
// extension and be under the max file size. Fields omitted from the JSON
// retain their default values.
func LoadTuning(path string) (*Tuning, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("tuning file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat tuning file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("tuning file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning file: %w", err)
	}

	cfg := EmptyTuning()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse tuning JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning: %w", err)
	}

	return cfg, nil
}

// Validate checks that the tuning values are valid.
func (c *Tuning) Validate() error {
	if c.TicksPerSecond != nil && *c.TicksPerSecond <= 0 {
		return fmt.Errorf("ticks_per_second must be positive, got %f", *c.TicksPerSecond)
	}
	if c.ProjectileSpeedMps != nil && *c.ProjectileSpeedMps <= 0 {
		return fmt.Errorf("projectile_speed_mps must be positive, got %f", *c.ProjectileSpeedMps)
	}
	if c.GateRadiusM != nil && *c.GateRadiusM <= 0 {
		return fmt.Errorf("gate_radius_m must be positive, got %f", *c.GateRadiusM)
	}
	if c.StalenessTicks != nil && *c.StalenessTicks < 1 {
		return fmt.Errorf("staleness_ticks must be >= 1, got %d", *c.StalenessTicks)
	}
	if c.StickyTargetTicks != nil && *c.StickyTargetTicks < 0 {
		return fmt.Errorf("sticky_target_ticks must be non-negative, got %d", *c.StickyTargetTicks)
	}
	if c.Estimator != nil {
		switch *c.Estimator {
		case EstimatorDifference, EstimatorKalman:
		default:
			return fmt.Errorf("estimator must be %q or %q, got %q", EstimatorDifference, EstimatorKalman, *c.Estimator)
		}
	}
	if c.CoarseTurnGain != nil && *c.CoarseTurnGain <= 0 {
		return fmt.Errorf("coarse_turn_gain must be positive, got %f", *c.CoarseTurnGain)
	}
	if c.FineTurnGain != nil && *c.FineTurnGain <= 0 {
		return fmt.Errorf("fine_turn_gain must be positive, got %f", *c.FineTurnGain)
	}
	if c.AimToleranceRad != nil && *c.AimToleranceRad <= 0 {
		return fmt.Errorf("aim_tolerance_rad must be positive, got %f", *c.AimToleranceRad)
	}
	return nil
}

// GetTicksPerSecond returns the simulation tick rate or the default.
func (c *Tuning) GetTicksPerSecond() float64 {
	if c.TicksPerSecond == nil {
		return 60
	}
	return *c.TicksPerSecond
}

// GetProjectileSpeedMps returns the projectile muzzle speed or the default.
func (c *Tuning) GetProjectileSpeedMps() float64 {
	if c.ProjectileSpeedMps == nil {
		return 1000
	}
	return *c.ProjectileSpeedMps
}

// GetFireRangeM returns the maximum trigger range or the default.
func (c *Tuning) GetFireRangeM() float64 {
	if c.FireRangeM == nil {
		return 1000
	}
	return *c.FireRangeM
}

// GetGateRadiusM returns the association gate side length or the default.
func (c *Tuning) GetGateRadiusM() float64 {
	if c.GateRadiusM == nil {
		return 50
	}
	return *c.GateRadiusM
}

// GetStalenessTicks returns the track retention window or the default.
func (c *Tuning) GetStalenessTicks() int {
	if c.StalenessTicks == nil {
		return 30
	}
	return *c.StalenessTicks
}

// GetEstimator returns the configured estimator name or the default.
func (c *Tuning) GetEstimator() string {
	if c.Estimator == nil {
		return EstimatorDifference
	}
	return *c.Estimator
}

// GetProcessNoisePos returns the Kalman position process noise or the default.
func (c *Tuning) GetProcessNoisePos() float64 {
	if c.ProcessNoisePos == nil {
		return 0.1
	}
	return *c.ProcessNoisePos
}

// GetProcessNoiseVel returns the Kalman velocity process noise or the default.
func (c *Tuning) GetProcessNoiseVel() float64 {
	if c.ProcessNoiseVel == nil {
		return 0.5
	}
	return *c.ProcessNoiseVel
}

// GetMeasurementNoise returns the Kalman measurement noise or the default.
func (c *Tuning) GetMeasurementNoise() float64 {
	if c.MeasurementNoise == nil {
		return 0.2
	}
	return *c.MeasurementNoise
}

// GetLostContactTicks returns the contact-recency threshold after which the
// engagement machine falls back to the long-range sweep, or the default.
func (c *Tuning) GetLostContactTicks() int {
	if c.LostContactTicks == nil {
		return 30
	}
	return *c.LostContactTicks
}

// GetStickyTargetTicks returns the designation hysteresis window or the default.
func (c *Tuning) GetStickyTargetTicks() int {
	if c.StickyTargetTicks == nil {
		return 1
	}
	return *c.StickyTargetTicks
}

// GetCoarseTurnGain returns the coarse convergence gain or the default.
func (c *Tuning) GetCoarseTurnGain() float64 {
	if c.CoarseTurnGain == nil {
		return 50
	}
	return *c.CoarseTurnGain
}

// GetFineTurnGain returns the fine convergence gain or the default.
func (c *Tuning) GetFineTurnGain() float64 {
	if c.FineTurnGain == nil {
		return 1000
	}
	return *c.FineTurnGain
}

// GetAimToleranceRad returns the heading error below which the controller
// switches to the fine gain, or the default.
func (c *Tuning) GetAimToleranceRad() float64 {
	if c.AimToleranceRad == nil {
		return 0.1
	}
	return *c.AimToleranceRad
}

// GetSearchBeamWidthRad returns the searching sweep cone width or the default.
func (c *Tuning) GetSearchBeamWidthRad() float64 {
	if c.SearchBeamWidthRad == nil {
		return math.Pi / 4
	}
	return *c.SearchBeamWidthRad
}

// GetSearchMinRangeM returns the searching sweep minimum range or the default.
func (c *Tuning) GetSearchMinRangeM() float64 {
	if c.SearchMinRangeM == nil {
		return 25
	}
	return *c.SearchMinRangeM
}

// GetSearchMaxRangeM returns the searching sweep maximum range or the default.
func (c *Tuning) GetSearchMaxRangeM() float64 {
	if c.SearchMaxRangeM == nil {
		return 10_000
	}
	return *c.SearchMaxRangeM
}

// GetLongRangeBeamWidthRad returns the lost-contact sweep cone width or the default.
func (c *Tuning) GetLongRangeBeamWidthRad() float64 {
	if c.LongRangeBeamWidthRad == nil {
		return math.Pi / 8
	}
	return *c.LongRangeBeamWidthRad
}

// GetLongRangeMaxRangeM returns the lost-contact sweep maximum range or the default.
func (c *Tuning) GetLongRangeMaxRangeM() float64 {
	if c.LongRangeMaxRangeM == nil {
		return 1_000_000
	}
	return *c.LongRangeMaxRangeM
}
