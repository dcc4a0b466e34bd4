package mqtt

import (
	"errors"
	"sync"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/model"
)

var errConnectTimeout = errors.New("unable to connect in time")

// client is the part of paho_mqtt.Client the service uses.
type client interface {
	Connect() paho_mqtt.Token
	Publish(topic string, qos byte, retained bool, payload any) paho_mqtt.Token
}

type service struct {
	client client
	site   model.Site

	mu         sync.Mutex
	configured map[string]struct{}
}

func New(client client, site model.Site) *service {
	return &service{
		client:     client,
		site:       site,
		configured: make(map[string]struct{}),
	}
}

// NewClient builds a paho client for the broker.
func NewClient(host, username, password, clientID string) paho_mqtt.Client {
	opts := paho_mqtt.NewClientOptions().
		AddBroker(host).
		SetClientID(clientID).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectTimeout(5 * time.Second)
	return paho_mqtt.NewClient(opts)
}

func (s *service) Connect() error {
	token := s.client.Connect()
	res := token.WaitTimeout(time.Second * 5)
	if res {
		return token.Error()
	}
	if err := token.Error(); err != nil {
		return err
	}
	return errConnectTimeout
}
