package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = in
	return &ses.SendEmailOutput{}, f.err
}

type fakeSNS struct {
	input *sns.PublishInput
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = in
	return &sns.PublishOutput{}, nil
}

func TestSESMailer(t *testing.T) {
	fake := &fakeSES{}
	m := &SESMailer{client: fake, from: "no-reply@suryaghar.in"}

	require.NoError(t, m.SendEmail(context.Background(), "ddp@example.com", "Status changed", "Customer approved"))
	assert.Equal(t, []string{"ddp@example.com"}, fake.input.Destination.ToAddresses)
	assert.Equal(t, "no-reply@suryaghar.in", *fake.input.Source)
	assert.Equal(t, "Status changed", *fake.input.Message.Subject.Data)

	fake.err = errors.New("throttled")
	assert.Error(t, m.SendEmail(context.Background(), "x@example.com", "s", "b"))
}

func TestSNSTexter(t *testing.T) {
	fake := &fakeSNS{}
	s := &SNSTexter{client: fake, senderID: "SURYAG"}

	require.NoError(t, s.SendSMS(context.Background(), "+919876543210", "hello"))
	assert.Equal(t, "+919876543210", *fake.input.PhoneNumber)
	assert.Equal(t, "SURYAG", *fake.input.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue)
}

func TestHub_PushReachesOnlyTargetUser(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := 1
		if r.URL.Query().Get("u") == "2" {
			userID = 2
		}
		hub.Serve(w, r, userID)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	c1, _, err := websocket.DefaultDialer.Dial(wsURL+"?u=1", nil)
	require.NoError(t, err)
	defer c1.Close()
	c2, _, err := websocket.DefaultDialer.Dial(wsURL+"?u=2", nil)
	require.NoError(t, err)
	defer c2.Close()

	require.Eventually(t, func() bool {
		return hub.Connected(1) == 1 && hub.Connected(2) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Push(1, map[string]string{"title": "Commission approved"})

	var got map[string]string
	c1.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, c1.ReadJSON(&got))
	assert.Equal(t, "Commission approved", got["title"])

	c2.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = c2.ReadMessage()
	assert.Error(t, err, "user 2 must not receive user 1's notification")
}
