// Command dcld is the compute-node daemon: it listens for a Host's
// MessageQueue and DataStream connections, and drives the native compute
// driver on every request (spec.md §1, §6.3).
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dcl-project/dcl/config"
	"github.com/dcl-project/dcl/daemon"
	"github.com/dcl-project/dcl/dispatch"
	"github.com/dcl-project/dcl/nlog"
	"github.com/dcl-project/dcl/proc"
	"github.com/dcl-project/dcl/transport"
	"github.com/dcl-project/dcl/wire"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		bindAddr   = flag.String("bind", "0.0.0.0", "address to listen on")
		debugAddr  = flag.String("debug-addr", ":9096", "debug HTTP surface address, empty to disable")
		nodeID     = flag.Uint64("node-id", uint64(os.Getpid()), "this node's logical id for collective/relay operations")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dcld: load config: %v\n", err)
		os.Exit(1)
	}

	log, err := nlog.New("dcld", cfg.LogPath, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dcld: init logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()
	nlog.SetDefault(log)

	selfPID := wire.ProcessID(os.Getpid())
	stats := daemon.NewStats()
	cache, err := daemon.OpenProgramCache("")
	if err != nil {
		log.Errorf("open program cache: %v", err)
		os.Exit(1)
	}
	defer cache.Close()

	drv := newStubDriver()
	processor := daemon.NewProcessor(drv, stats, cache)

	var (
		mu       sync.Mutex
		sessions []*daemon.Session
		byPID    = make(map[wire.ProcessID]*daemon.Session)
	)

	controlAddr := fmt.Sprintf("%s:%d", *bindAddr, cfg.ControlPort)
	dataAddr := fmt.Sprintf("%s:%d", *bindAddr, cfg.DataPort)

	msgDispatcher, err := dispatch.NewMessageDispatcher(controlAddr, selfPID, cfg.MaxBodySize, nil, func(mq *transport.MessageQueue) {
		host := proc.NewHost(mq.PeerPID(), mq, cfg.ResponseBufferSize)
		sess := daemon.NewSession(host, *nodeID)
		host.SetNotificationHandler(func(msg wire.Message) {
			req, ok := msg.(wire.Request)
			if !ok {
				log.Warningf("dcld: dropping non-request message type %d from pid %d", msg.Type(), mq.PeerPID())
				return
			}
			resp := processor.Handle(context.Background(), sess, req)
			if err := mq.Send(resp); err != nil {
				log.Warningf("dcld: send response to pid %d: %v", mq.PeerPID(), err)
			}
		})
		mu.Lock()
		sessions = append(sessions, sess)
		byPID[mq.PeerPID()] = sess
		mu.Unlock()
		go daemon.RunStatusRelay(sess, drv, *nodeID, func() int64 { return time.Now().UnixNano() })
		log.Infof("dcld: host pid %d connected", mq.PeerPID())
	})
	if err != nil {
		log.Errorf("dcld: listen on %s: %v", controlAddr, err)
		os.Exit(1)
	}
	defer msgDispatcher.Close()

	dataDispatcher, err := dispatch.NewDataDispatcher(dataAddr, selfPID, cfg.MaxBodySize, nil, func(ds *transport.DataStream) {
		mu.Lock()
		sess, ok := byPID[ds.PeerPID()]
		mu.Unlock()
		if !ok {
			log.Warningf("dcld: data stream from pid %d has no matching session, closing", ds.PeerPID())
			_ = ds.Close()
			return
		}
		sess.Host().AttachDataStream(ds)
		log.Infof("dcld: data stream from pid %d connected", ds.PeerPID())
	})
	if err != nil {
		log.Errorf("dcld: listen on %s: %v", dataAddr, err)
		os.Exit(1)
	}
	defer dataDispatcher.Close()

	var debugSrv *daemon.DebugServer
	if *debugAddr != "" {
		debugSrv = daemon.NewDebugServer(*debugAddr, func() []*daemon.Session {
			mu.Lock()
			defer mu.Unlock()
			out := make([]*daemon.Session, len(sessions))
			copy(out, sessions)
			return out
		})
		go func() {
			if err := debugSrv.ListenAndServe(); err != nil {
				log.Warningf("dcld: debug server stopped: %v", err)
			}
		}()
	}

	log.Infof("dcld: listening control=%s data=%s", controlAddr, dataAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Infof("dcld: shutting down")
	if debugSrv != nil {
		_ = debugSrv.Shutdown()
	}
}

