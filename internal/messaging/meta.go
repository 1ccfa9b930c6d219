package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"feiraja/internal/config"
)

const metaName = "meta"

// MetaClient talks to the WhatsApp Business Cloud API.
type MetaClient struct {
	token         string
	phoneNumberID string
	baseURL       string
	client        *http.Client
}

func NewMetaClient(cfg config.WhatsAppConfig, client *http.Client) *MetaClient {
	return &MetaClient{
		token:         cfg.AccessToken,
		phoneNumberID: cfg.PhoneNumberID,
		baseURL:       strings.TrimRight(cfg.GraphBaseURL, "/"),
		client:        client,
	}
}

func (m *MetaClient) Name() string { return metaName }

type metaText struct {
	Body string `json:"body"`
}

type metaRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             metaText `json:"text"`
}

type metaResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// MetaRecipient: только цифры, код страны 55 по умолчанию.
func MetaRecipient(phone string) string {
	d := Digits(phone)
	if strings.HasPrefix(d, "55") {
		return d
	}
	return "55" + d
}

func (m *MetaClient) Send(ctx context.Context, phone, body string) (*Result, error) {
	payload, _ := json.Marshal(metaRequest{
		MessagingProduct: "whatsapp",
		To:               MetaRecipient(phone),
		Type:             "text",
		Text:             metaText{Body: body},
	})
	url := fmt.Sprintf("%s/%s/messages", m.baseURL, m.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &DeliveryError{Provider: metaName, Kind: KindTransport, Message: "Erro desconhecido ao enviar mensagem WhatsApp", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+m.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, &DeliveryError{Provider: metaName, Kind: KindTransport, Message: "Erro desconhecido ao enviar mensagem WhatsApp", Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var out metaResponse
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, metaError(resp.StatusCode, out)
	}

	res := &Result{Status: "queued", WhatsAppLink: WhatsAppLink(phone, "")}
	if len(out.Messages) > 0 {
		res.MessageID = out.Messages[0].ID
	}
	return res, nil
}

func metaError(status int, out metaResponse) *DeliveryError {
	e := &DeliveryError{Provider: metaName, Kind: KindAPI}
	switch {
	case out.Error != nil && out.Error.Code == 131026:
		e.Kind = KindUnregistered
		e.Message = "Número de telefone não é um usuário válido do WhatsApp"
	case out.Error != nil && out.Error.Code == 131047:
		e.Kind = KindReengagement
		e.Message = "Re-engagement message não foi enviado"
	case out.Error != nil && out.Error.Message != "":
		e.Message = "Meta WhatsApp API error: " + out.Error.Message
	default:
		e.Message = "Erro desconhecido ao enviar mensagem WhatsApp"
	}
	e.Err = fmt.Errorf("meta status %d", status)
	return e
}
