package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/model"
)

// Write announces any sensor Home Assistant has not seen yet and publishes the
// aggregate as the site's state.
func (s *service) Write(ctx context.Context, agg model.DayAggregate) error {
	for _, sensor := range agg.Sensors() {
		if err := s.RegisterSensor(sensor, agg.Unit); err != nil {
			return err
		}
	}
	return s.PublishState(agg)
}

// RegisterSensor publishes the retained discovery config of one sensor.
func (s *service) RegisterSensor(sensor model.Sensor, unit model.Unit) error {
	id := s.sensorID(sensor)
	s.mu.Lock()
	_, exists := s.configured[id]
	s.mu.Unlock()
	if exists {
		return nil
	}

	payload, err := json.Marshal(s.registerMsg(sensor, unit))
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("homeassistant/sensor/%s/config", id)
	token := s.client.Publish(topic, 1, true, payload)
	if !token.WaitTimeout(time.Second * 5) {
		return fmt.Errorf("register %s: timed out", id)
	}
	if err := token.Error(); err != nil {
		return err
	}
	s.mu.Lock()
	s.configured[id] = struct{}{}
	s.mu.Unlock()
	return nil
}

// PublishState publishes every sensor value of the aggregate in one message.
func (s *service) PublishState(agg model.DayAggregate) error {
	payload := map[string]any{
		"date":     agg.Date,
		"tou_date": agg.TouDate,
		"unit":     agg.Unit.String(),
	}
	for _, sensor := range agg.Sensors() {
		payload[sensor.Slug] = sensor.Value
	}

	publishData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	token := s.client.Publish(s.stateTopic(), 0, false, publishData)
	res := token.WaitTimeout(time.Second * 10)
	if res {
		return token.Error()
	}
	if err := token.Error(); err != nil {
		return err
	}
	return nil
}

func (s *service) siteSlug() string {
	name := s.site.ID
	if name == "" {
		name = s.site.Name
	}
	return strings.Replace(slug.Make(name), "-", "_", -1)
}

func (s *service) sensorID(sensor model.Sensor) string {
	return fmt.Sprintf("tou_%s_%s", s.siteSlug(), sensor.Slug)
}

func (s *service) stateTopic() string {
	return fmt.Sprintf("homeassistant/sensor/tou_%s/state", s.siteSlug())
}

func (s *service) registerMsg(sensor model.Sensor, unit model.Unit) model.RegisterMessage {
	deviceID := fmt.Sprintf("tou_%s", s.siteSlug())
	deviceName := fmt.Sprintf("TOU %s", s.site.Name)

	msg := model.RegisterMessage{
		Tilda:             fmt.Sprintf("homeassistant/sensor/%s", deviceID),
		Name:              sensor.Name,
		ID:                s.sensorID(sensor),
		StateTopic:        "~/state",
		ValueTemplate:     fmt.Sprintf("{{ value_json.%s }}", sensor.Slug),
		UnitOfMeasurement: unit.String(),
		Device: model.RegisterDevice{
			Name:         deviceName,
			Identifiers:  []string{deviceID},
			Model:        "MEA Time of Use",
			Manufacturer: "Hoymiles",
		},
	}
	if unit == model.UnitKiloWattHour {
		msg.DeviceClass = "energy"
	}
	return msg
}
