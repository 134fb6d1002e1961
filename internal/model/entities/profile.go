package entities

// Parameters is an open key→numeric mapping read by strategies. A missing
// key is never an error; readers fall back to built-in constants.
type Parameters map[string]float64

// Get returns the value for key, or def when the key (or the whole map) is
// absent.
func (p Parameters) Get(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// ControlProfile binds a device to a decision strategy and its tuning
// parameters. One per device, mutated only through the configuration API.
type ControlProfile struct {
	DeviceID    string     `json:"device_id"`
	StrategyKey string     `json:"strategy_key"`
	Parameters  Parameters `json:"parameters,omitempty"`
}
