package notify

import (
	"bytes"
	"context"
	"html/template"
	"sync"
	"time"
)

// Message is one outbound email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Sender delivers a single message through the email provider and returns the
// provider's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Outcome is the per-message result of a fan-out. Callers treat it as
// telemetry only; it is never a precondition for order success.
type Outcome struct {
	ID  string `json:"id,omitempty"`
	Err string `json:"error,omitempty"`
}

func (o Outcome) OK() bool {
	return o.Err == ""
}

// Result combines the independent outcomes of one order fan-out.
type Result struct {
	CustomerEmail Outcome `json:"customerEmail"`
	InternalEmail Outcome `json:"internalEmail"`
}

var emailBody = template.Must(template.New("order").Parse(
	`<div><h1>Welcome, {{.FirstName}}!</h1>{{if .OrderNumber}}<p>Order ID: {{.OrderNumber}}</p>{{end}}</div>`))

// Dispatcher fans an order event out to the customer and the internal inbox.
// Both sends run concurrently with an independent timeout each; one failing
// never cancels the other.
type Dispatcher struct {
	sender     Sender
	from       string
	internalTo string
	timeout    time.Duration
}

func NewDispatcher(sender Sender, from, internalTo string, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		sender:     sender,
		from:       from,
		internalTo: internalTo,
		timeout:    timeout,
	}
}

// DispatchOrder sends the customer confirmation and the internal alert for a
// newly created order and waits for both regardless of individual failure.
func (d *Dispatcher) DispatchOrder(ctx context.Context, customerEmail, firstName, orderNumber string) Result {
	body, err := renderBody(firstName, orderNumber)
	if err != nil {
		out := Outcome{Err: err.Error()}
		return Result{CustomerEmail: out, InternalEmail: out}
	}

	var (
		wg     sync.WaitGroup
		result Result
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		result.CustomerEmail = d.send(ctx, Message{
			From:    d.from,
			To:      customerEmail,
			Subject: "Order Confirmation",
			HTML:    body,
		})
	}()
	go func() {
		defer wg.Done()
		result.InternalEmail = d.send(ctx, Message{
			From:    d.from,
			To:      d.internalTo,
			Subject: "New Order Received",
			HTML:    body,
		})
	}()
	wg.Wait()

	return result
}

func (d *Dispatcher) send(ctx context.Context, msg Message) Outcome {
	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	id, err := d.sender.Send(sendCtx, msg)
	if err != nil {
		return Outcome{Err: err.Error()}
	}
	return Outcome{ID: id}
}

func renderBody(firstName, orderNumber string) (string, error) {
	var buf bytes.Buffer
	err := emailBody.Execute(&buf, struct {
		FirstName   string
		OrderNumber string
	}{firstName, orderNumber})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
