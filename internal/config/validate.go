package config

import (
	"fmt"
	"strconv"
	"strings"
)

var isolationLevels = map[string]struct{}{
	"serializable":    {},
	"repeatable read": {},
	"read committed":  {},
}

func (c *Config) validate() error {
	if err := validPort("port", c.Port); err != nil {
		return err
	}
	if err := validPort("admin port", c.AdminPort); err != nil {
		return err
	}
	if c.AdminPort == c.Port {
		return fmt.Errorf("admin port must differ from port %d", c.Port)
	}

	p, err := strconv.Atoi(c.DB.Port)
	if err != nil {
		return fmt.Errorf("invalid postgres port %q: %w", c.DB.Port, err)
	}
	if err := validPort("postgres port", p); err != nil {
		return err
	}
	if c.DB.ConnectRetries <= 0 {
		c.DB.ConnectRetries = 1
	}

	w := &c.Workflow
	if w.OperationTimeout <= 0 {
		return fmt.Errorf("invalid operation timeout: %s", w.OperationTimeout)
	}
	w.TxIsolation = strings.ToLower(strings.TrimSpace(w.TxIsolation))
	if _, ok := isolationLevels[w.TxIsolation]; !ok {
		return fmt.Errorf("invalid tx isolation %q", w.TxIsolation)
	}
	if w.TxMaxAttempts <= 0 {
		return fmt.Errorf("invalid tx max attempts: %d", w.TxMaxAttempts)
	}
	switch strings.ToLower(strings.TrimSpace(w.OfferPolicy)) {
	case "replace", "append":
	default:
		return fmt.Errorf("invalid offer policy %q", w.OfferPolicy)
	}
	if w.CandidateLimit <= 0 {
		return fmt.Errorf("invalid candidate limit: %d", w.CandidateLimit)
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	return nil
}

func validPort(name string, port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid %s: %d", name, port)
	}
	return nil
}
