package model

import (
	"github.com/greenhouse-lab/enviroctl/internal/model/entities"
	"github.com/greenhouse-lab/enviroctl/internal/model/messages"
)

// Aliases exposing the common types to the services.

type (
	ReadingEvent        = messages.ReadingEvent
	AlertNotification   = messages.AlertNotification
	CommandMessage      = messages.CommandMessage
	NotificationMessage = messages.NotificationMessage

	Device             = entities.Device
	AlertRule          = entities.AlertRule
	Operator           = entities.Operator
	ControlProfile     = entities.ControlProfile
	Parameters         = entities.Parameters
	ActuatorCommand    = entities.ActuatorCommand
	ActuatorAction     = entities.ActuatorAction
	DeviceModeSnapshot = entities.DeviceModeSnapshot
	Mode               = entities.Mode
	SensorKind         = entities.SensorKind
)

const (
	ActionOn  = entities.ActionOn
	ActionOff = entities.ActionOff

	ModeIdle       = entities.ModeIdle
	ModeCooling    = entities.ModeCooling
	ModeIrrigating = entities.ModeIrrigating
	ModeAlarm      = entities.ModeAlarm

	KindTemperature = entities.KindTemperature
	KindMoisture    = entities.KindMoisture
)

var (
	ErrDeviceNotFound  = entities.ErrDeviceNotFound
	ErrInvalidOperator = entities.ErrInvalidOperator
)
