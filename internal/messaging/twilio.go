package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"feiraja/internal/config"
)

const (
	twilioName = "twilio"

	sandboxNumber      = "+1 415 523 8886"
	sandboxHint        = `Para receber mensagens do WhatsApp, primeiro envie "join <palavra-chave>" para +1 415 523 8886`
	sandboxJoinMessage = `Usuário precisa se juntar ao sandbox do Twilio primeiro. Envie "join <palavra-chave>" para +1 415 523 8886`
	unregisteredMsg    = "Número não encontrado no WhatsApp ou não habilitado para receber mensagens"
)

// TwilioClient — запасной провайдер (Twilio WhatsApp).
type TwilioClient struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	sandbox    bool
	client     *http.Client
}

func NewTwilioClient(cfg config.TwilioConfig, client *http.Client) *TwilioClient {
	return &TwilioClient{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.WhatsAppFrom,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		sandbox:    cfg.IsSandbox(),
		client:     client,
	}
}

func (t *TwilioClient) Name() string { return twilioName }

type twilioResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (t *TwilioClient) Send(ctx context.Context, phone, body string) (*Result, error) {
	form := url.Values{
		"From": {t.from},
		"To":   {"whatsapp:+" + Digits(phone)},
		"Body": {body},
	}
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.baseURL, t.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &DeliveryError{Provider: twilioName, Kind: KindTransport, Message: "Twilio WhatsApp API error: " + err.Error(), Err: err}
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &DeliveryError{Provider: twilioName, Kind: KindTransport, Message: "Twilio WhatsApp API error: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var out twilioResponse
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, twilioError(resp.StatusCode, out)
	}

	res := &Result{MessageID: out.SID, Status: out.Status, WhatsAppLink: WhatsAppLink(phone, "")}
	if t.sandbox {
		res.SandboxInstructions = &SandboxInstructions{Required: true, Message: sandboxHint, SandboxNumber: sandboxNumber}
	}
	return res, nil
}

func twilioError(status int, out twilioResponse) *DeliveryError {
	msg := out.Message
	if msg == "" {
		msg = "Unknown error"
	}
	e := &DeliveryError{Provider: twilioName, Kind: KindAPI, Err: fmt.Errorf("twilio status %d code %d: %s", status, out.Code, msg)}
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "not a valid whatsapp user"):
		e.Kind = KindUnregistered
		e.Message = unregisteredMsg
	case strings.Contains(lower, "sandbox"):
		e.Kind = KindSandboxJoin
		e.Message = sandboxJoinMessage
	default:
		e.Message = "Twilio WhatsApp API error: " + msg
	}
	return e
}
