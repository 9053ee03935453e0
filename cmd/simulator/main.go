package main

import (
	"encoding/json"
	"flag"
	"math/rand"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/config"
	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/domain"
	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/simulation"
)

// Standalone load generator: publishes synthetic readings for one device
// over MQTT, exercising the ingestor end to end without the API.
func main() {
	deviceID := flag.String("device", "", "device id to publish readings for (required)")
	deviceType := flag.String("type", domain.DeviceMeter, "device type: solar, meter or appliance")
	count := flag.Int("count", 100, "number of readings to publish")
	delay := flag.Duration("delay", 500*time.Millisecond, "delay between readings")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if *deviceID == "" {
		log.Fatal().Msg("-device is required")
	}
	if !domain.ValidDeviceType(*deviceType) {
		log.Fatal().Str("type", *deviceType).Msg("unknown device type")
	}

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect failed")
	}
	defer client.Disconnect(250)

	gen := simulation.NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
	device := domain.Device{ID: *deviceID, Type: *deviceType}
	topic := config.MQTTTopic()

	for i := 0; i < *count; i++ {
		sample := gen.Sample(&device, time.Now())
		payload, _ := json.Marshal(map[string]any{
			"device_id": sample.DeviceID,
			"timestamp": sample.Timestamp,
			"power":     sample.Power,
			"voltage":   sample.Voltage,
			"current":   sample.Current,
			"energy":    sample.Energy,
		})
		token := client.Publish(topic, 0, false, payload)
		token.Wait()
		time.Sleep(*delay)
	}
	log.Info().Int("published", *count).Msg("simulation done")
}
