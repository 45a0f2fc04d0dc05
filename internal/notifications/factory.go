package notifications

import "log"

// New picks the confirmation channel. Provider "ses" sends real email,
// "off" disables confirmations, everything else logs.
func New(provider string, ses SESConfig) Notifier {
	switch provider {
	case "ses":
		return NewSESNotifier(ses)
	case "off":
		return Off{}
	case "log":
		return NewLogNotifier()
	default:
		log.Printf("unknown notifier provider %q, using log", provider)
		return NewLogNotifier()
	}
}
