package relayclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/tripplanner/pkg/llm"
	"github.com/papercomputeco/tripplanner/pkg/llm/llmtest"
	"github.com/papercomputeco/tripplanner/pkg/relayclient"
	"github.com/papercomputeco/tripplanner/relay"
)

var _ = Describe("Client", func() {
	Describe("against a stub server", func() {
		var (
			server   *httptest.Server
			received llm.ChatRequest
		)

		AfterEach(func() {
			if server != nil {
				server.Close()
			}
		})

		It("posts the prompt and collects the streamed body", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Method).To(Equal(http.MethodPost))
				Expect(r.URL.Path).To(Equal(relayclient.ChatPath))
				Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())

				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				flusher := w.(http.Flusher)
				for _, part := range []string{"## Overview\n", "Trip summary.\n"} {
					_, _ = w.Write([]byte(part))
					flusher.Flush()
				}
			}))

			var seen string
			client := relayclient.New(server.URL + "/")
			text, err := client.Chat(context.Background(), "Plan a trip", func(chunk string) {
				seen += chunk
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(received.Prompt).To(Equal("Plan a trip"))
			Expect(text).To(Equal("## Overview\nTrip summary.\n"))
			Expect(seen).To(Equal(text))
		})

		It("returns a StatusError carrying the relay's message", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "Missing prompt", http.StatusBadRequest)
			}))

			_, err := relayclient.New(server.URL).Chat(context.Background(), "", nil)

			var statusErr *relayclient.StatusError
			Expect(errors.As(err, &statusErr)).To(BeTrue())
			Expect(statusErr.Code).To(Equal(http.StatusBadRequest))
			Expect(statusErr.Message).To(Equal("Missing prompt"))
		})

		It("fails when the relay is unreachable", func() {
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())
			addr := ln.Addr().String()
			Expect(ln.Close()).To(Succeed())

			_, err = relayclient.New("http://"+addr).Chat(context.Background(), "Plan a trip", nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to reach relay"))
		})
	})

	Describe("against a running relay", func() {
		var (
			r        *relay.Relay
			baseURL  string
			streamer *llmtest.Streamer
		)

		start := func(config relay.Config) {
			var err error
			r, err = relay.New(config, streamer, zap.NewNop())
			Expect(err).NotTo(HaveOccurred())

			ln, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())
			baseURL = "http://" + ln.Addr().String()

			go func() {
				defer GinkgoRecover()
				_ = r.RunWithListener(ln)
			}()
		}

		BeforeEach(func() {
			streamer = &llmtest.Streamer{
				Chunks: []string{"## Overview\n", "Trip summary.\n", "## Daily Itinerary\n"},
			}
		})

		AfterEach(func() {
			Expect(r.Shutdown()).To(Succeed())
		})

		It("receives every chunk in order", func() {
			start(relay.Config{APIKey: "sk-test"})

			var chunks []string
			text, err := relayclient.New(baseURL).Chat(context.Background(), "Plan a trip", func(chunk string) {
				chunks = append(chunks, chunk)
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("## Overview\nTrip summary.\n## Daily Itinerary\n"))
			Expect(chunks).NotTo(BeEmpty())
			Expect(streamer.Calls()).To(HaveLen(1))
		})

		It("surfaces the missing credential as a 500", func() {
			start(relay.Config{})

			_, err := relayclient.New(baseURL).Chat(context.Background(), "Plan a trip", nil)

			var statusErr *relayclient.StatusError
			Expect(errors.As(err, &statusErr)).To(BeTrue())
			Expect(statusErr.Code).To(Equal(http.StatusInternalServerError))
			Expect(statusErr.Message).To(Equal(relay.MsgMissingAPIKey))
			Expect(streamer.Calls()).To(BeEmpty())
		})
	})
})
