package observability

import "context"

type nopProvider struct{}

// Nop returns a Provider that discards every log record and metric sample.
func Nop() Provider { return nopProvider{} }

func (nopProvider) Counter(string) Counter     { return nopProvider{} }
func (nopProvider) Histogram(string) Histogram { return nopProvider{} }

func (nopProvider) Add(context.Context, int64, ...Attribute)      {}
func (nopProvider) Record(context.Context, float64, ...Attribute) {}

func (nopProvider) Trace(context.Context, string, ...Attribute) {}
func (nopProvider) Debug(context.Context, string, ...Attribute) {}
func (nopProvider) Info(context.Context, string, ...Attribute)  {}
func (nopProvider) Warn(context.Context, string, ...Attribute)  {}
func (nopProvider) Error(context.Context, string, ...Attribute) {}

// IsNop reports whether p is the provider returned by Nop.
func IsNop(p any) bool {
	_, ok := p.(nopProvider)
	return ok
}
