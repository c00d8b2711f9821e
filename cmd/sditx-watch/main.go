// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command sditx-watch polls a running sditx-srv service and raises
// alerts when the transmit stream degrades: growing overflow or
// underflow counters, or a lost video lock.
package main // import "github.com/go-bcast/sditx/cmd/sditx-watch"

import (
	"crypto/tls"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	mail "gopkg.in/gomail.v2"

	"github.com/go-bcast/sditx/tx"
)

func main() {
	var (
		addr = flag.String("addr", "localhost:9999", "address of the sditx-srv service")
		freq = flag.Duration("freq", 30*time.Second, "probing interval")
	)

	flag.Parse()

	log.SetPrefix("sditx-watch: ")
	log.SetFlags(0)

	run(*addr, *freq)
}

func run(addr string, freq time.Duration) {
	w, err := newWatcher(addr, freq)
	if err != nil {
		log.Fatalf("could not create watcher: %+v", err)
	}
	defer w.close()

	log.Printf("watching %q...", addr)
	w.run()
}

type watcher struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder

	freq   time.Duration
	last   tx.Status
	seen   bool
	alerts map[string]int // number of alerts sent per condition
}

func newWatcher(addr string, freq time.Duration) (*watcher, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not dial %q: %w", addr, err)
	}
	return &watcher{
		conn:   conn,
		enc:    json.NewEncoder(conn),
		dec:    json.NewDecoder(conn),
		freq:   freq,
		alerts: make(map[string]int),
	}, nil
}

func (w *watcher) close() {
	_ = w.conn.Close()
}

func (w *watcher) run() {
	tick := time.NewTicker(w.freq)
	defer tick.Stop()

	for range tick.C {
		sta, err := w.status()
		if err != nil {
			log.Printf("could not poll status: %+v", err)
			continue
		}
		w.compare(sta)
	}
}

func (w *watcher) status() (tx.Status, error) {
	req := struct {
		Name string   `json:"name"`
		Args []string `json:"args"`
	}{Name: "status", Args: []string{}}

	err := w.enc.Encode(req)
	if err != nil {
		return tx.Status{}, fmt.Errorf("could not send status request: %w", err)
	}

	var rep struct {
		Msg    string     `json:"msg"`
		Status *tx.Status `json:"status"`
	}
	err = w.dec.Decode(&rep)
	if err != nil {
		return tx.Status{}, fmt.Errorf("could not read status reply: %w", err)
	}
	if rep.Status == nil {
		return tx.Status{}, fmt.Errorf("invalid status reply: %q", rep.Msg)
	}
	return *rep.Status, nil
}

func (w *watcher) compare(sta tx.Status) {
	defer func() {
		w.last = sta
		w.seen = true
	}()

	if !w.seen {
		return
	}

	if n := sta.Overflow - w.last.Overflow; n > 0 {
		w.alert("overflow", fmt.Sprintf("%d new overflow faults (total=%d)", n, sta.Overflow))
	}
	if n := sta.Underflow - w.last.Underflow; n > 0 {
		w.alert("underflow", fmt.Sprintf("%d new underflow faults (total=%d)", n, sta.Underflow))
	}
	if w.last.Locked && !sta.Locked && sta.State == tx.StateEnabled {
		w.alert("lock", "video stream lost lock")
	}
}

func (w *watcher) alert(cond, desc string) {
	log.Printf("alert: %s: %s (freq=%v)", cond, desc, w.freq)
	w.alerts[cond]++

	const maxAlerts = 5
	if w.alerts[cond] < maxAlerts {
		w.alertMail(cond, desc)
	}
}

var (
	alertMailUsr  = os.Getenv("MAIL_USERNAME")
	alertMailPwd  = os.Getenv("MAIL_PASSWORD")
	alertMailSrv  = os.Getenv("MAIL_SERVER")
	alertMailPort = atoi(os.Getenv("MAIL_PORT"))
	alertMailTgts = strings.Split(os.Getenv("MAIL_TGTS"), ",")
)

func (w *watcher) alertMail(cond, desc string) {
	if alertMailUsr == "" || alertMailPwd == "" ||
		alertMailSrv == "" || alertMailPort == 0 ||
		len(alertMailTgts) == 0 {
		log.Printf("could not send mail alert: missing credentials")
		return
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", alertMailUsr)
	msg.SetHeader("Bcc", alertMailTgts...)
	msg.SetHeader("Subject", fmt.Sprintf("[sditx-watch] stream alert: %s", cond))
	msg.SetBody("text/plain", fmt.Sprintf("condition: %s\n%s\nfreq: %v",
		cond, desc, w.freq,
	))

	dial := mail.NewDialer(alertMailSrv, alertMailPort, alertMailUsr, alertMailPwd)
	dial.TLSConfig = &tls.Config{
		InsecureSkipVerify: true,
	}
	err := dial.DialAndSend(msg)
	if err != nil {
		log.Printf("could not send mail alert: %+v", err)
	}
}

func atoi(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
