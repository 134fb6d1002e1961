package entities

// SensorKind identifies what a measurement describes.
type SensorKind string

const (
	KindTemperature SensorKind = "temperature"
	KindMoisture    SensorKind = "moisture"
)
