package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.fiblab.net/sim/campusnav/labels"
	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

var (
	// 配置信息
	mongoURI      = flag.String("mongo_uri", "", "mongo db uri")
	campusPathStr = flag.String("campus", "", "campus yaml file or database and collection [format: {fspath} or {db}.{col}]")
	labelsURL     = flag.String("labels", "", "classroom name service base url, empty means fallback labels only")
	listenAddr    = flag.String("listen", "localhost:52111", "HTTP/2 (h2c) listening address")
	rateLimit     = flag.Int("rate", 600, "requests per minute per client ip, <= 0 means unlimited")
	drawSpeed     = flag.Float64("draw-speed", 100, "route animation speed in pixels per second")
	logLevel      = flag.String("log-level", "info", "log level [debug, info, warn, error, fatal, panic]")

	// 性能测试
	benchmark = flag.Bool("benchmark", false, "benchmark mode")
	pprofAddr = flag.String("pprof", "localhost:52112", "pprof listening address")

	LOG_LEVELS = map[string]logrus.Level{
		"debug": logrus.DebugLevel,
		"info":  logrus.InfoLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"fatal": logrus.FatalLevel,
		"panic": logrus.PanicLevel,
	}

	log = logrus.WithField("module", "main")
)

func newLabelLookup(baseURL string) labels.Lookup {
	if baseURL == "" {
		return labels.NewStatic(nil)
	}
	return labels.NewHTTPLookup(labels.HTTPConfig{BaseURL: baseURL})
}

func main() {
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	flag.Parse()
	if level, ok := LOG_LEVELS[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		logrus.Fatalf("invalid log level: %s", *logLevel)
	}

	campusPath, err := NewPath(*campusPathStr)
	if err != nil {
		logrus.Fatalf("invalid campus path: %s", err)
	}
	r, err := LoadCampus(context.Background(), *mongoURI, campusPath)
	if err != nil {
		logrus.Fatalf("failed to load campus: %v", err)
	}
	// 启动导航服务
	server := NewRouteServer(r, newLabelLookup(*labelsURL))

	if *pprofAddr != "" {
		// 启动pprof
		startHTTPDebugger(*pprofAddr)
	}

	if *benchmark {
		// 性能测试
		runBenchmark(server)
		return
	}

	// 使用HTTP/2 w.o. TLS
	s := &http.Server{
		Addr:    *listenAddr,
		Handler: h2c.NewHandler(NewHTTPHandler(server, *rateLimit), &http2.Server{}),
	}

	// 优雅退出与热更新
	// 创建监听退出chan
	signalCh := make(chan os.Signal, 1)
	//监听指定信号 ctrl+c kill，SIGHUP重新加载园区数据
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range signalCh {
			if sig == syscall.SIGHUP {
				reload(context.Background(), server, campusPath)
				continue
			}
			log.Info("stopping...")
			go func() {
				<-signalCh
				os.Exit(1) // 强制结束
			}()
			// 退出http服务
			s.Close()
			// 退出导航服务
			server.Close()
			os.Exit(0)
		}
	}()

	log.Infof("server listening at %v", s.Addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("failed to serve: %v", err)
	}
	time.Sleep(1 * time.Second) // 延迟等待"优雅退出"
	log.Info("campusnav closes")
}

// 加载完成后再替换，加载期间请求继续使用旧数据，失败时保留旧数据
func reload(ctx context.Context, server *RouteServer, path *Path) error {
	r, err := LoadCampus(ctx, *mongoURI, path)
	if err != nil {
		log.Errorf("reload campus failed, keep serving old data: %v", err)
		return err
	}
	server.Reload(r)
	return nil
}
