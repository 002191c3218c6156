// Command dclhost is a minimal host-side harness: it connects to one
// compute node, enumerates its devices, and prints what it found. It
// exists as an integration-test vehicle for the host side of the protocol,
// not a production submission tool (spec.md §8 "Device enumeration").
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dcl-project/dcl/config"
	"github.com/dcl-project/dcl/event"
	"github.com/dcl-project/dcl/nlog"
	"github.com/dcl-project/dcl/proc"
	"github.com/dcl-project/dcl/transport"
	"github.com/dcl-project/dcl/wire"
)

func main() {
	var (
		nodeAddr = flag.String("node", "127.0.0.1:25025", "compute node control address")
		timeout  = flag.Duration("timeout", 10*time.Second, "per-call timeout")
	)
	flag.Parse()

	cfg := config.Default(false)
	log, err := nlog.New("dclhost", "", cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dclhost: init logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()
	nlog.SetDefault(log)

	selfPID := wire.ProcessID(os.Getpid())
	mq, err := transport.DialMessageQueue(*nodeAddr, selfPID, wire.ProcessTypeHost, cfg.MaxBodySize)
	if err != nil {
		log.Errorf("dclhost: dial %s: %v", *nodeAddr, err)
		os.Exit(1)
	}
	defer mq.Close()

	node := proc.NewComputeNode(mq.PeerPID(), mq, cfg.ResponseBufferSize)

	evProc := event.NewProcessor(0)
	defer evProc.Stop()
	node.SetNotificationHandler(func(msg wire.Message) {
		evProc.Submit(func() {
			log.Infof("dclhost: notification type %d from node pid %d", msg.Type(), node.PID())
		})
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	resp, err := node.Call(ctx, &wire.GetDeviceIDs{PlatformID: 0})
	if err != nil {
		log.Errorf("dclhost: GetDeviceIDs: %v", err)
		os.Exit(1)
	}
	if resp.GetErrcode() != 0 {
		log.Errorf("dclhost: GetDeviceIDs failed, errcode=%d", resp.GetErrcode())
		os.Exit(1)
	}
	ids := resp.(*wire.DeviceIDsResponse).DeviceIDs
	fmt.Printf("compute node %d advertises %d device(s): %v\n", node.NodeID, len(ids), ids)

	for _, id := range ids {
		infoResp, err := node.Call(ctx, &wire.GetDeviceInfo{DeviceID: id, Param: 0})
		if err != nil {
			log.Warningf("dclhost: GetDeviceInfo(%d): %v", id, err)
			continue
		}
		if infoResp.GetErrcode() != 0 {
			log.Warningf("dclhost: GetDeviceInfo(%d) failed, errcode=%d", id, infoResp.GetErrcode())
			continue
		}
		name := string(infoResp.(*wire.InfoResponse).Value)
		fmt.Printf("  device %d: %s\n", id, name)
	}
}
