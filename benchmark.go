package main

import (
	"context"
	"flag"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"math/rand"

	"connectrpc.com/connect"
	"git.fiblab.net/sim/campusnav/router"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

var (
	benchmarkCount = flag.Int("benchmark.count", 1000, "the random trip count for benchmark")
	benchmarkSeed  = flag.Int64("benchmark.seed", 0, "the seed for benchmark")
	benchmarkCPU   = flag.Int("benchmark.cpu", 1, "the cpu count for benchmark")
)

// 园区内所有可选的教室
func allSelections(server *RouteServer) []router.Selection {
	var sels []router.Selection
	for _, f := range server.current().Floors() {
		sels = append(sels, lo.Map(f.Classrooms(), func(c *router.Classroom, _ int) router.Selection {
			return router.Selection{Floor: f.Name(), Classroom: c.ID}
		})...)
	}
	return sels
}

func randomTripRequests(server *RouteServer, count int, seed int64) []*connect.Request[GetTripRequest] {
	sels := allSelections(server)
	if len(sels) == 0 {
		return nil
	}
	// 设置随机种子
	e := rand.New(rand.NewSource(seed))
	// 随机生成count个请求，起点和终点都是随机的教室
	reqs := make([]*connect.Request[GetTripRequest], count)
	for i := 0; i < count; i++ {
		reqs[i] = connect.NewRequest(&GetTripRequest{
			From: sels[e.Intn(len(sels))],
			To:   sels[e.Intn(len(sels))],
		})
	}
	return reqs
}

func runBenchmark(server *RouteServer) {
	log.Logger.SetLevel(logrus.WarnLevel)
	reqs := randomTripRequests(server, *benchmarkCount, *benchmarkSeed)
	if len(reqs) == 0 {
		log.Error("benchmark skipped: campus has no classroom")
		return
	}

	// 开始benchmark
	start := time.Now()
	var wg sync.WaitGroup
	var success atomic.Int32
	run := func(req *connect.Request[GetTripRequest]) {
		res, err := server.GetTrip(context.Background(), req)
		if err != nil {
			log.Error("benchmark failed, err:", err)
			return
		}
		if len(res.Msg.Segments) > 0 {
			success.Add(1)
		}
	}
	if *benchmarkCPU == 1 {
		for _, req := range reqs {
			run(req)
		}
	} else {
		// 设置cpu数量
		runtime.GOMAXPROCS(*benchmarkCPU)
		wg.Add(len(reqs))
		for _, req := range reqs {
			go func(req *connect.Request[GetTripRequest]) {
				defer wg.Done()
				run(req)
			}(req)
		}
		wg.Wait()
	}
	timeCost := time.Since(start) * time.Duration(*benchmarkCPU)
	log.Error(
		"benchmark finished", "\n",
		"count:", len(reqs), "\n",
		"time:", timeCost, "\n",
		"avg:", timeCost/time.Duration(len(reqs)), "\n",
		"success:", success.Load(), "\n",
	)
}
