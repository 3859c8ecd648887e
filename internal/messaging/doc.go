// Package messaging builds the plain-text messages handed to the external
// chat service and delivers them through an outbound port.
//
// Delivery is fire-and-forget. The only status a Sender can report is
// StatusSent; there is no delivered or failed feedback from the chat
// service, so callers assert on content, never on receipt.
//
// Templates are byte-stable: the same record always renders the same text.
package messaging
