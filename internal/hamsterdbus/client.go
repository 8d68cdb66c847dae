// Package hamsterdbus talks to a running Hamster time tracker over the
// session bus.
package hamsterdbus

import (
	"context"
	"fmt"
	"strconv"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"github.com/Tiliavir/hamster-cli/internal/model"
	"github.com/Tiliavir/hamster-cli/internal/tracker"
)

const (
	service    = "org.gnome.Hamster"
	objectPath = dbus.ObjectPath("/org/gnome/Hamster")
	iface      = "org.gnome.Hamster"
)

// caller is the part of dbus.BusObject the client uses.
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Client is a tracker.Store backed by the org.gnome.Hamster service.
type Client struct {
	conn *dbus.Conn
	obj  caller
	log  *zap.Logger
}

var _ tracker.Store = (*Client)(nil)

// Connect opens the session bus and binds to the Hamster service object.
func Connect(log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("hamster appears to be down (can't connect via D-Bus): %w", err)
	}
	log.Debug("connected to session bus", zap.String("service", service))
	return &Client{conn: conn, obj: conn.Object(service, objectPath), log: log}, nil
}

// Close releases the bus connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *Client) call(ctx context.Context, method string, args ...interface{}) *dbus.Call {
	c.log.Debug("dbus call", zap.String("method", method), zap.Any("args", args))
	call := c.obj.CallWithContext(ctx, iface+"."+method, 0, args...)
	if call.Err != nil {
		call.Err = fmt.Errorf("hamster %s: %w", method, call.Err)
	}
	return call
}

func (c *Client) AddFact(ctx context.Context, activity string, start, end int64) error {
	return c.call(ctx, "AddFact", activity, stamp32(start), stamp32(end)).Err
}

func (c *Client) StopTracking(ctx context.Context) error {
	return c.call(ctx, "StopTracking").Err
}

func (c *Client) GetFacts(ctx context.Context, start, end int64) ([]model.Fact, error) {
	var raw []map[string]dbus.Variant
	if err := c.call(ctx, "GetFacts", stamp32(start), stamp32(end)).Store(&raw); err != nil {
		return nil, err
	}
	facts := make([]model.Fact, 0, len(raw))
	for _, r := range raw {
		facts = append(facts, factFromVariants(r))
	}
	return facts, nil
}

func (c *Client) GetActivities(ctx context.Context) ([]model.Activity, error) {
	var raw [][]interface{}
	if err := c.call(ctx, "GetActivities").Store(&raw); err != nil {
		return nil, err
	}
	out := make([]model.Activity, 0, len(raw))
	for _, r := range raw {
		if len(r) < 2 {
			continue
		}
		name, _ := r[0].(string)
		category, _ := r[1].(string)
		out = append(out, model.Activity{Name: name, Category: category})
	}
	return out, nil
}

func (c *Client) GetCategories(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.call(ctx, "GetCategories").Store(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// stamp32 narrows a store stamp to the service's uint32 argument.
func stamp32(s int64) uint32 {
	if s < 0 {
		return 0
	}
	return uint32(s)
}

// factFromVariants converts one a{sv} fact record. A zero end_time marks a
// running fact.
func factFromVariants(m map[string]dbus.Variant) model.Fact {
	f := model.Fact{Tags: []string{}, Source: "hamster"}
	if v, ok := m["id"]; ok {
		if n, ok := toInt64(v.Value()); ok {
			f.ID = strconv.FormatInt(n, 10)
		} else if s, ok := v.Value().(string); ok {
			f.ID = s
		}
	}
	f.Name = variantString(m, "name")
	f.Category = variantString(m, "category")
	if d := variantString(m, "description"); d != "" {
		f.Description = &d
	}
	if v, ok := m["start_time"]; ok {
		f.StartTime, _ = toInt64(v.Value())
	}
	if v, ok := m["end_time"]; ok {
		if n, ok := toInt64(v.Value()); ok && n != 0 {
			f.EndTime = &n
		}
	}
	if v, ok := m["tags"]; ok {
		switch tags := v.Value().(type) {
		case []string:
			f.Tags = append(f.Tags, tags...)
		case []interface{}:
			for _, t := range tags {
				if s, ok := t.(string); ok {
					f.Tags = append(f.Tags, s)
				}
			}
		}
	}
	return f
}

func variantString(m map[string]dbus.Variant, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	s, _ := v.Value().(string)
	return s
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case int16:
		return int64(n), true
	case uint16:
		return int64(n), true
	case byte:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}
