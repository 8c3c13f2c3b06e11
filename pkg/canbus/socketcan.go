package canbus

import (
	sockcan "github.com/brutella/can"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "[CANBUS]")

// SocketcanBus wraps github.com/brutella/can the way the teacher's
// pkg/can/socketcan package wraps it: Connect/Disconnect/Send/Subscribe
// translated 1:1 onto the underlying bus.Bus, with Frame translated to
// and from brutella/can's can.Frame.
type SocketcanBus struct {
	iface    string
	bus      *sockcan.Bus
	listener FrameListener
}

// NewSocketcanBus opens a SocketCAN interface by name (e.g. "can0").
func NewSocketcanBus(iface string) (*SocketcanBus, error) {
	bus, err := sockcan.NewBusForInterfaceWithName(iface)
	if err != nil {
		return nil, err
	}
	return &SocketcanBus{iface: iface, bus: bus}, nil
}

func (s *SocketcanBus) Connect() error {
	if s.listener != nil {
		s.bus.SubscribeFunc(func(frame sockcan.Frame) {
			s.listener.Handle(fromBrutella(frame))
		})
	}
	log.WithField("interface", s.iface).Info("connecting to CAN interface")
	go func() {
		if err := s.bus.ConnectAndPublish(); err != nil {
			log.WithError(err).Error("CAN bus publish loop exited")
		}
	}()
	return nil
}

func (s *SocketcanBus) Disconnect() error {
	return s.bus.Disconnect()
}

func (s *SocketcanBus) Send(frame Frame) error {
	return s.bus.Publish(toBrutella(frame))
}

func (s *SocketcanBus) Subscribe(listener FrameListener) error {
	s.listener = listener
	return nil
}

func toBrutella(f Frame) sockcan.Frame {
	out := sockcan.Frame{ID: f.ID, Length: f.DLC}
	copy(out.Data[:], f.Payload[:])
	return out
}

func fromBrutella(f sockcan.Frame) Frame {
	out := Frame{ID: f.ID, DLC: f.Length}
	copy(out.Payload[:], f.Data[:])
	return out
}
