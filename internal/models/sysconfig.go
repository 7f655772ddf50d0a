package models

import "time"

// Feature switch names accepted by SystemConfig.Enabled.
const (
	FeatureRegistration = "registration"
	FeaturePaidStreams  = "paid_streams"
	FeatureGifting      = "gifting"
)

// SystemConfig is the emergency-switch singleton.
type SystemConfig struct {
	EnableRegistration bool      `json:"enable_registration"`
	EnablePaidStreams  bool      `json:"enable_paid_streams"`
	EnableGifting      bool      `json:"enable_gifting"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func DefaultSystemConfig() SystemConfig {
	return SystemConfig{EnableRegistration: true, EnablePaidStreams: true, EnableGifting: true}
}

func (c SystemConfig) Enabled(feature string) bool {
	switch feature {
	case FeatureRegistration:
		return c.EnableRegistration
	case FeaturePaidStreams:
		return c.EnablePaidStreams
	case FeatureGifting:
		return c.EnableGifting
	}
	return true
}
