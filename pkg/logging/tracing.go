package logging

// TracedObject is anything that can describe itself with a set of log fields,
// like an authenticated identity.
type TracedObject interface {
	GetTraceData() map[string]string
}

func TracedLogger(l KVLogger, t TracedObject) KVLogger {
	for k, v := range t.GetTraceData() {
		l = l.With(k, v)
	}
	return l
}
