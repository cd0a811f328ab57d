package dsl

// FeedURLs returns the feed source URLs declared in the feeds section,
// in declaration order. Returns nil when no feeds section exists.
func (r *Report) FeedURLs() []string {
	if r == nil {
		return nil
	}
	var urls []string
	for _, section := range r.Sections {
		if section.Feeds == nil || section.Feeds.Block == nil {
			continue
		}
		for _, stmt := range section.Feeds.Block.Statements {
			if stmt.Command == nil || stmt.Command.Name != "feed" {
				continue
			}
			if len(stmt.Command.Args) > 0 {
				urls = append(urls, stmt.Command.Args[0].Value)
			}
		}
	}
	return urls
}

// Envelope carries the delivery fields of the mail section.
type Envelope struct {
	To      string
	Subject string
	Body    string
}

// MailEnvelope extracts the mail section. ok is false when the report
// declares no mail section.
func (r *Report) MailEnvelope() (Envelope, bool) {
	if r == nil {
		return Envelope{}, false
	}
	for _, section := range r.Sections {
		if section.Mail == nil || section.Mail.Block == nil {
			continue
		}
		var env Envelope
		for _, stmt := range section.Mail.Block.Statements {
			if stmt.Assignment == nil || stmt.Assignment.Value == nil || stmt.Assignment.Value.String == nil {
				continue
			}
			val := string(*stmt.Assignment.Value.String)
			switch stmt.Assignment.Key {
			case "to":
				env.To = val
			case "subject":
				env.Subject = val
			case "body":
				env.Body = val
			}
		}
		return env, true
	}
	return Envelope{}, false
}
