package services

import (
	"fmt"
	"regexp"

	"feiraja/internal/models"
)

type MessageKind string

const (
	KindVerification      MessageKind = "verification"
	KindWelcome           MessageKind = "welcome"
	KindOrderConfirmation MessageKind = "order-confirmation"
	KindAutoReply         MessageKind = "auto-reply"
)

// simulatedIDPrefix — префикс messageId в режиме симуляции.
var simulatedIDPrefix = map[MessageKind]string{
	KindVerification:      "mock",
	KindWelcome:           "welcome",
	KindOrderConfirmation: "order",
	KindAutoReply:         "reply",
}

// Message is an outbound chat message rendered from a fixed template.
type Message interface {
	Kind() MessageKind
	Body() string
	// LinkText is the pre-filled text of the wa.me link produced in simulation mode.
	LinkText() string
}

// VerificationMessage: KnownUser выбирает шаблон "существующий покупатель".
type VerificationMessage struct {
	Code      string
	Name      string
	KnownUser bool
}

func (m VerificationMessage) Kind() MessageKind { return KindVerification }

func (m VerificationMessage) Body() string {
	if m.KnownUser {
		name := m.Name
		if name == "" {
			name = "Cliente"
		}
		return fmt.Sprintf(`🛒 Olá %s!

Seu código de acesso à Feirajá é: *%s*

Cole este código no site para acessar seus produtos frescos.

O código expira em 5 minutos.

🥕 Feirajá - Produtos frescos direto do produtor`, name, m.Code)
	}
	return fmt.Sprintf(`🥕 Bem-vindo à Feirajá!

Seu código de verificação é: *%s*

Cole este código no site para confirmar seu cadastro e começar a receber produtos frescos direto do produtor.

O código expira em 5 minutos.

🌱 Feirajá - A feira na sua casa`, m.Code)
}

func (m VerificationMessage) LinkText() string { return "Código: " + m.Code }

type WelcomeMessage struct {
	Name string
}

func (m WelcomeMessage) Kind() MessageKind { return KindWelcome }

func (m WelcomeMessage) Body() string {
	return fmt.Sprintf(`🎉 Bem-vindo à Feirajá, %s!

Seu cadastro foi realizado com sucesso! 

Agora você pode:
• Explorar nossos produtos frescos
• Configurar sua cesta personalizada
• Receber produtos direto do produtor

🥕 Produtos sempre frescos
🚚 Entrega na sua casa
🌱 Direto do produtor

Obrigado por fazer parte da nossa comunidade!

Feirajá - A feira na sua casa`, m.Name)
}

func (m WelcomeMessage) LinkText() string { return m.Body() }

type OrderConfirmationMessage struct {
	Order models.OrderSummary
}

func (m OrderConfirmationMessage) Kind() MessageKind { return KindOrderConfirmation }

func (m OrderConfirmationMessage) Body() string {
	o := m.Order
	return fmt.Sprintf(`✅ Pedido confirmado!

Olá %s!

Seu pedido #%s foi confirmado com sucesso.

💰 Total: R$ %.2f
📅 Entrega prevista: %s
📍 Endereço: %s

Acompanhe seu pedido no site da Feirajá.

🥕 Obrigado por escolher produtos frescos!

Feirajá - A feira na sua casa`, o.CustomerName, o.ID, o.Total, o.DeliveryDate, o.Address)
}

func (m OrderConfirmationMessage) LinkText() string { return m.Body() }

// AutoReplyMessage — ответ на входящее сообщение, шаблон выбирается по ключевым словам.
type AutoReplyMessage struct {
	Incoming string
}

func (m AutoReplyMessage) Kind() MessageKind { return KindAutoReply }

func (m AutoReplyMessage) Body() string {
	for _, r := range autoReplies {
		if r.trigger.MatchString(m.Incoming) {
			return r.text
		}
	}
	return defaultAutoReply
}

func (m AutoReplyMessage) LinkText() string { return m.Body() }

type autoReply struct {
	trigger *regexp.Regexp
	text    string
}

var autoReplies = []autoReply{
	{
		trigger: regexp.MustCompile(`(?i)ola|oi|hey|hello|hi`),
		text: `Olá! 👋 Bem-vindo à Feiraja! 🥬🍅

Acesse nossa plataforma e descubra produtos frescos direto da roça:
🔗 https://feiraja.vercel.app

✨ O que você encontra:
• Frutas e verduras frescas
• Produtos orgânicos selecionados  
• Entrega em casa
• Preços direto do produtor

Primeira vez? Você será direcionado para montar sua cesta personalizada! 📦`,
	},
	{
		trigger: regexp.MustCompile(`(?i)produto|comprar|cesta|feira`),
		text: `🛒 Que ótimo! Você quer conhecer nossos produtos!

Acesse agora a Feiraja:
🔗 https://feiraja.vercel.app

🌱 Produtos frescos da roça
📦 Cestas personalizadas
🚚 Entrega gratuita
💚 Direto do produtor

Clique no link e monte sua primeira cesta! 🥕🥬`,
	},
	{
		trigger: regexp.MustCompile(`(?i)preco|valor|quanto|custa`),
		text: `💰 Nossos preços são direto do produtor!

Veja todos os valores na nossa plataforma:
🔗 https://feiraja.vercel.app

🏷️ Cestas a partir de R$ 25,00
📦 Tamanhos para toda família
🆓 Frete grátis
💳 Pagamento facilitado

Acesse e confira! 🛒`,
	},
}

const defaultAutoReply = `Olá! 👋 Obrigado pela mensagem!

Acesse a Feiraja e descubra produtos frescos da roça:
🔗 https://feiraja.vercel.app

🥬 Produtos orgânicos e frescos
📦 Cestas personalizadas  
🚚 Entrega em casa

Primeira visita? Você será direcionado para configurar sua cesta ideal! ✨`
