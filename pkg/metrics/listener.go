package metrics

import "github.com/getmockd/mockd-jsonlog/pkg/exchange"

// ListenerName is the registration key of the exchange metrics listener.
const ListenerName = "exchange-metrics"

type exchangeListener struct {
	c *Collectors
}

// Listener returns an exchange.Listener that counts every served exchange.
func (c *Collectors) Listener() exchange.Listener {
	return exchangeListener{c: c}
}

func (l exchangeListener) Name() string { return ListenerName }

func (l exchangeListener) OnExchangeComplete(s *exchange.Snapshot) {
	if s == nil {
		return
	}
	l.c.ObserveExchange(s.WasMatched, s.Response.Status)
}
