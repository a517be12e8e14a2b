// Package main 提供 actornet 命令行入口
//
// 启动一个带回环测试后端的节点，可预先为指定 authority 供应通道，
// 并通过 HTTP 暴露 Prometheus 指标。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dep2p/go-actornet"
	"github.com/dep2p/go-actornet/config"
	"github.com/dep2p/go-actornet/pkg/lib/log"
	"github.com/dep2p/go-actornet/pkg/types"
)

var logger = log.Logger("actornet/cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
//
//   命令行参数：运行时覆盖（「这次运行」想怎么跑）
//   JSON 配置文件：持久化配置（「这个节点」的固定配置）
//
// ═══════════════════════════════════════════════════════════════════════════
var (
	configFile  = flag.String("config", "", "配置文件路径")
	preset      = flag.String("preset", "", "预设配置 (test/minimal)")
	nodeID      = flag.String("node-id", "", "本地节点标识（Base58，默认随机）")
	provisioner = flag.String("provisioner", "", "回环通道供应方式 (socketpair/pipe)")
	peers       = flag.String("peers", "", "启动时供应通道的 authority 列表（逗号分隔，如 test://node-b）")
	metricsAddr = flag.String("metrics-addr", "", "Prometheus 指标监听地址（如 127.0.0.1:9100）")
	logLevel    = flag.String("log-level", "", "日志级别 (debug/info/warn/error)")

	showVersion = flag.Bool("version", false, "显示版本信息")
	showHelp    = flag.Bool("help", false, "显示帮助信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		printVersion()
		return nil
	}
	if *showHelp {
		printHelp()
		return nil
	}

	opts, cfg, err := buildOptions()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fmt.Printf("📦 %s\n", actornet.VersionInfo())
	logger.Info("启动 actornet 节点", "version", actornet.Version, "commit", actornet.GitCommit, "buildDate", actornet.BuildDate)

	node, err := actornet.Start(ctx, opts...)
	if err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	defer func() { _ = node.Close() }()

	provisioned, err := provisionPeers(node, cfg.peers)
	if err != nil {
		return err
	}

	var srv *http.Server
	if *metricsAddr != "" {
		srv, err = serveMetrics(node, *metricsAddr)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	printNodeInfo(node, provisioned)

	fmt.Println("节点已启动，按 Ctrl+C 退出")
	waitForSignal()

	fmt.Println("\n正在关闭节点...")
	return nil
}

// cliConfig 不属于 config.Config 的运行时配置
type cliConfig struct {
	peers []string
}

// buildOptions 构建选项
//
// 配置优先级（从高到低）：
//  1. 命令行参数
//  2. 环境变量（ACTORNET_* 前缀）
//  3. 配置文件
//  4. 默认值
func buildOptions() ([]actornet.Option, *cliConfig, error) {
	var (
		opts []actornet.Option
		cfg  *config.Config
	)

	if *configFile != "" {
		loaded, err := config.LoadFile(*configFile)
		if err != nil {
			return nil, nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.NewConfig()
	}

	cli := &cliConfig{}
	env := applyEnvOverrides(cfg, cli)

	presetName := env.preset
	if isFlagSet("preset") {
		presetName = *preset
	}
	if presetName != "" {
		if err := config.ApplyPreset(cfg, presetName); err != nil {
			return nil, nil, err
		}
	}

	if isFlagSet("node-id") && *nodeID != "" {
		id, err := types.ParseNodeID(*nodeID)
		if err != nil {
			return nil, nil, fmt.Errorf("node-id: %w", err)
		}
		cfg.Middleman = cfg.Middleman.WithNodeID(id)
	}
	if isFlagSet("provisioner") {
		cfg.Backend.Test.Provisioner = *provisioner
	}
	if isFlagSet("log-level") {
		cfg.Log.Level = *logLevel
	}
	if isFlagSet("peers") {
		cli.peers = splitAndTrim(*peers, ",")
	}
	if *metricsAddr != "" {
		cfg.Metrics.Enabled = true
	}

	opts = append(opts, actornet.WithConfig(cfg))
	return opts, cli, nil
}

// provisionPeers 为给定 authority 供应回环通道
func provisionPeers(node *actornet.Node, authorities []string) ([]types.NodeID, error) {
	out := make([]types.NodeID, 0, len(authorities))
	for _, s := range authorities {
		u, err := types.ParseURI(s)
		if err != nil {
			return nil, fmt.Errorf("peer %q: %w", s, err)
		}
		auth, ok := u.AuthorityOnly()
		if !ok {
			return nil, fmt.Errorf("peer %q: missing authority", s)
		}
		if _, err := node.Middleman().Connect(auth); err != nil {
			return nil, fmt.Errorf("peer %q: %w", s, err)
		}
		out = append(out, types.MakeNodeID(auth))
	}
	return out, nil
}

// serveMetrics 在 addr 上暴露 /metrics
func serveMetrics(node *actornet.Node, addr string) (*http.Server, error) {
	m := node.Metrics()
	if m == nil {
		return nil, errors.New("metrics disabled")
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("指标服务退出", "addr", addr, "error", err)
		}
	}()
	logger.Info("指标服务已启动", "addr", addr)
	return srv, nil
}

// isFlagSet 检查命令行参数是否被显式设置
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// waitForSignal 等待退出信号
func waitForSignal() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
}

// printNodeInfo 打印节点信息
func printNodeInfo(node *actornet.Node, provisioned []types.NodeID) {
	cfg := node.Config()
	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Printf("║ 节点: %s\n", node.NodeID())
	fmt.Printf("║ 后端: %s (%s)\n", node.Backend().Name(), cfg.Backend.Test.Provisioner)
	for _, id := range provisioned {
		fmt.Printf("║ 通道: %s\n", id.ShortString())
	}
	if *metricsAddr != "" {
		fmt.Printf("║ 指标: http://%s/metrics\n", *metricsAddr)
	}
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("actornet %s\n", actornet.Version)
	if actornet.GitCommit != "" {
		fmt.Printf("  commit: %s\n", actornet.GitCommit)
	}
	if actornet.BuildDate != "" {
		fmt.Printf("  built:  %s\n", actornet.BuildDate)
	}
}

// printHelp 打印帮助信息
func printHelp() {
	fmt.Println("actornet - actor 消息中间人节点")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  actornet [选项]")
	fmt.Println()
	fmt.Println("选项:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("环境变量:")
	fmt.Println("  ACTORNET_PRESET        预设名称")
	fmt.Println("  ACTORNET_NODE_ID       本地节点标识")
	fmt.Println("  ACTORNET_PROVISIONER   回环通道供应方式")
	fmt.Println("  ACTORNET_PEERS         启动时供应通道的 authority 列表")
	fmt.Println("  ACTORNET_LOG_LEVEL     日志级别")
	fmt.Println()
	fmt.Println("使用示例:")
	fmt.Println("  actornet -preset test -peers test://node-b,test://node-c -metrics-addr 127.0.0.1:9100")
}
