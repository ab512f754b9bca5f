// Package config holds the session configuration for perfume.
//
// A Config is read once when a session is created. Hosts can load it from a
// YAML or JSON file:
//
//	cfg, err := config.Load("perfume.yaml")
//	if err != nil {
//	    return err
//	}
//
// Example YAML:
//
//	firstPaint: true
//	firstContentfulPaint: true
//	firstInputDelay: true
//	dataConsumption: true
//	dataConsumptionTimeout: 15s
//	logPrefix: "Perfume.js:"
//	maxMeasureTime: 15000
//	maxDataConsumption: 20000
//
// Fields that are absent keep the values from Default.
package config
