// Package main 提供 objbus 守护进程入口
//
// 在 TCP 上暴露一棵对象树：每个入站连接获得独立的调度循环，
// 指标经 HTTP /metrics 导出。
package main

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	objbus "github.com/dep2p/go-objbus"
	"github.com/dep2p/go-objbus/internal/transport/netconn"
	"github.com/dep2p/go-objbus/pkg/lib/log"
	"github.com/dep2p/go-objbus/pkg/types"
)

var logger = log.Logger("objbus/cmd")

var (
	listenAddr  = flag.String("listen", "127.0.0.1:7600", "监听地址")
	metricsAddr = flag.String("metrics", "", "指标 HTTP 监听地址（空 = 不导出）")
	compress    = flag.Bool("compress", false, "启用帧压缩")
	introspect  = flag.Bool("introspect", false, "打印本地对象树自省文档后退出")
	connectAddr = flag.String("connect", "", "连接远端守护进程并打印其自省文档后退出")
	logLevel    = flag.String("log-level", "info", "日志级别 (debug/info/warn/error)")
)

const (
	svcPath  types.ObjectPath = "/org/objbus/Service"
	svcIface                  = "org.objbus.Service"
)

func main() {
	flag.Parse()
	log.SetLevelString(*logLevel)

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	reg := prometheus.NewRegistry()
	f := objbus.NewFactory[any](objbus.WithMetrics(reg))
	tree := buildTree(f)

	if *introspect {
		fmt.Println(tree.Introspection(tree.Node(svcPath)))
		return nil
	}

	if *connectAddr != "" {
		return remoteIntrospect(*connectAddr)
	}

	ln, err := net.Listen("tcp", *listenAddr)
	if err != nil {
		return err
	}
	logger.Info("服务已启动", "listen", ln.Addr().String())

	var g errgroup.Group

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		g.Go(func() error {
			logger.Info("指标端点已启动", "addr", *metricsAddr)
			err := http.ListenAndServe(*metricsAddr, mux)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})
	}

	// 中断信号触发退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("收到中断信号，停止接受连接")
		_ = ln.Close()
	}()

	g.Go(func() error {
		return acceptLoop(ln, tree)
	})
	return g.Wait()
}

// buildTree 构建守护进程暴露的对象树
func buildTree(f *objbus.Factory[any]) *objbus.Tree[any] {
	var echoCount atomic.Int32

	iface := f.Interface(svcIface, nil).
		AddMethod(f.Method("Echo", nil, func(mi *objbus.MethodInfo[any]) ([]*types.Message, *objbus.MethodErr) {
			s, ok := mi.Msg.StringArg(0)
			if !ok {
				return nil, objbus.InvalidArgument(0)
			}
			echoCount.Add(1)
			return []*types.Message{mi.Msg.MethodReturn(types.NewVariant(s))}, nil
		}).In("request", "s").Out("reply", "s")).
		AddProperty(f.Property("EchoCount", int32(0), nil).
			OnGet(func(pi *objbus.PropInfo[any]) (types.Variant, *objbus.MethodErr) {
				return types.NewVariant(echoCount.Load()), nil
			}))

	return f.Tree().Add(f.Node(svcPath, nil).Introspectable().Add(iface))
}

// remoteIntrospect 连接远端守护进程并打印其自省文档
func remoteIntrospect(addr string) error {
	raw, err := net.Dial("tcp", addr)
	if err != nil {
		return err
	}

	opts := []netconn.Option{}
	if *compress {
		opts = append(opts, netconn.WithCompression())
	}
	conn := netconn.New(raw, opts...)
	defer func() { _ = conn.Close() }()

	call := types.NewMethodCall("server", svcPath, objbus.IntrospectableIface, "Introspect")
	if err := conn.Send(call); err != nil {
		return err
	}

	for {
		ev, ok := conn.Next()
		if !ok {
			return errors.New("连接在收到回复前断开")
		}
		switch {
		case ev.Kind == types.EventMethodReturn && ev.Msg.ReplySerial == call.Serial:
			xml, _ := ev.Msg.StringArg(0)
			fmt.Println(xml)
			return nil
		case ev.Kind == types.EventError && ev.Msg.ReplySerial == call.Serial:
			desc, _ := ev.Msg.StringArg(0)
			return fmt.Errorf("%s: %s", ev.Msg.ErrorName, desc)
		case ev.Kind == types.EventDisconnected:
			return errors.New("连接在收到回复前断开")
		}
	}
}

// acceptLoop 接受连接并为每个连接启动调度循环
func acceptLoop(ln net.Listener, tree *objbus.Tree[any]) error {
	var g errgroup.Group
	for {
		raw, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break
			}
			return multierr.Append(err, g.Wait())
		}
		g.Go(func() error {
			serveConn(raw, tree)
			return nil
		})
	}
	return g.Wait()
}

// serveConn 在单个连接上运行调度循环直至断开
func serveConn(raw net.Conn, tree *objbus.Tree[any]) {
	remote := raw.RemoteAddr().String()
	logger.Info("连接已建立", "remote", remote)

	opts := []netconn.Option{}
	if *compress {
		opts = append(opts, netconn.WithCompression())
	}
	conn := netconn.New(raw, opts...)
	defer func() {
		if err := conn.Close(); err != nil && !errors.Is(err, netconn.ErrClosed) {
			logger.Warn("关闭连接失败", "remote", remote, "error", err)
		}
	}()

	if err := tree.SetRegistered(conn, true); err != nil {
		logger.Warn("路径注册失败", "remote", remote, "error", err)
		return
	}

	srv := tree.Serve(conn, conn)
	for {
		ev, ok := srv.Next()
		if !ok || ev.Kind == types.EventDisconnected {
			break
		}
		// 非方法调用事件对守护进程无意义，丢弃
		logger.Debug("忽略入站事件", "kind", ev.Kind.String(), "remote", remote)
	}
	logger.Info("连接已断开", "remote", remote)
}
