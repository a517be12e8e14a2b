package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// ResultForwarded resolve 已转发到通道
	ResultForwarded = "forwarded"
	// ResultInvalidLocator 定位符无效
	ResultInvalidLocator = "invalid_locator"

	directionIn  = "in"
	directionOut = "out"
)

// Metrics 指标集合
type Metrics struct {
	registry *prometheus.Registry

	peersProvisioned prometheus.Counter
	peersActive      prometheus.Gauge
	resolves         *prometheus.CounterVec
	proxiesCreated   prometheus.Counter
	channels         prometheus.Gauge
	frames           *prometheus.CounterVec
	bytes            *prometheus.CounterVec
}

// New 创建指标集合并注册到独立的 Registry
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		peersProvisioned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "peers_provisioned_total",
			Help:      "Number of loopback channels provisioned.",
		}),
		peersActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "peers_active",
			Help:      "Number of peers currently in the registry.",
		}),
		resolves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "resolves_total",
			Help:      "Resolve requests by result.",
		}, []string{"result"}),
		proxiesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "proxies_created_total",
			Help:      "Number of remote actor proxies created.",
		}),
		channels: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "multiplexer",
			Name:      "channels",
			Help:      "Number of channels registered for reading.",
		}),
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "endpoint",
			Name:      "frames_total",
			Help:      "Frames by direction.",
		}, []string{"direction"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "endpoint",
			Name:      "bytes_total",
			Help:      "Frame payload bytes by direction.",
		}, []string{"direction"}),
	}

	m.registry.MustRegister(
		m.peersProvisioned,
		m.peersActive,
		m.resolves,
		m.proxiesCreated,
		m.channels,
		m.frames,
		m.bytes,
	)
	return m
}

// Registry 返回底层 Registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler 返回 /metrics HTTP 处理器
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// PeerProvisioned 记录一次通道供应
func (m *Metrics) PeerProvisioned() {
	if m == nil {
		return
	}
	m.peersProvisioned.Inc()
}

// SetActivePeers 设置当前登记的节点数
func (m *Metrics) SetActivePeers(n int) {
	if m == nil {
		return
	}
	m.peersActive.Set(float64(n))
}

// Resolve 记录一次 resolve 请求
func (m *Metrics) Resolve(result string) {
	if m == nil {
		return
	}
	m.resolves.WithLabelValues(result).Inc()
}

// ProxyCreated 记录一次代理创建
func (m *Metrics) ProxyCreated() {
	if m == nil {
		return
	}
	m.proxiesCreated.Inc()
}

// ChannelsChanged 实现 multiplexer.Observer
func (m *Metrics) ChannelsChanged(n int) {
	if m == nil {
		return
	}
	m.channels.Set(float64(n))
}

// FrameReceived 实现 endpoint.Observer
func (m *Metrics) FrameReceived(n int) {
	if m == nil {
		return
	}
	m.frames.WithLabelValues(directionIn).Inc()
	m.bytes.WithLabelValues(directionIn).Add(float64(n))
}

// FrameSent 实现 endpoint.Observer
func (m *Metrics) FrameSent(n int) {
	if m == nil {
		return
	}
	m.frames.WithLabelValues(directionOut).Inc()
	m.bytes.WithLabelValues(directionOut).Add(float64(n))
}
