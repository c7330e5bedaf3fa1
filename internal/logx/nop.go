package logx

// discard drops every entry. Services fall back to it when no logger is injected.
type discard struct{}

var nop Logger = discard{}

// Nop returns a Logger that drops everything.
func Nop() Logger { return nop }

func (discard) Debug(string, ...Field) {}
func (discard) Info(string, ...Field)  {}
func (discard) Warn(string, ...Field)  {}
func (discard) Error(string, ...Field) {}
func (discard) With(...Field) Logger   { return nop }
func (discard) Sync() error            { return nil }
