package registry

// Defaults returns the built-in destination catalog. The selectors track
// each page's current markup and will drift; the injection layer carries
// generic fallbacks for when they do.
func Defaults() []Destination {
	return []Destination{
		{
			ID:                 "chatgpt",
			DisplayName:        "ChatGPT",
			NewConversationURL: "https://chatgpt.com/",
			InputLocator:       "#prompt-textarea, div[contenteditable='true'].ProseMirror",
			SubmitLocator:      "button[data-testid='send-button'], button[aria-label='Send prompt']",
			Enabled:            true,
			URLMatchPattern:    "https://chatgpt.com/*",
		},
		{
			ID:                 "claude",
			DisplayName:        "Claude",
			NewConversationURL: "https://claude.ai/new",
			InputLocator:       "div[contenteditable='true'].ProseMirror, div[aria-label='Write your prompt to Claude']",
			SubmitLocator:      "button[aria-label='Send message'], button[aria-label='Send Message']",
			Enabled:            true,
			URLMatchPattern:    "https://claude.ai/*",
		},
		{
			ID:                 "gemini",
			DisplayName:        "Gemini",
			NewConversationURL: "https://gemini.google.com/app",
			InputLocator:       "div.ql-editor[contenteditable='true'], rich-textarea div[contenteditable='true']",
			SubmitLocator:      "button[aria-label='Send message'], button.send-button",
			Enabled:            true,
			URLMatchPattern:    "https://gemini.google.com/*",
		},
		{
			ID:                 "perplexity",
			DisplayName:        "Perplexity",
			NewConversationURL: "https://www.perplexity.ai/",
			InputLocator:       "textarea[placeholder*='Ask'], div[contenteditable='true']",
			SubmitLocator:      "button[aria-label='Submit'], button[data-testid='submit-button']",
			Enabled:            true,
			URLMatchPattern:    "https://www.perplexity.ai/*",
		},
		{
			ID:                 "grok",
			DisplayName:        "Grok",
			NewConversationURL: "https://grok.com/",
			InputLocator:       "textarea[aria-label='Ask Grok anything'], textarea",
			SubmitLocator:      "button[type='submit'], button[aria-label='Submit']",
			Enabled:            false,
			URLMatchPattern:    "https://grok.com/*",
		},
		{
			ID:                 "deepseek",
			DisplayName:        "DeepSeek",
			NewConversationURL: "https://chat.deepseek.com/",
			InputLocator:       "textarea#chat-input, textarea",
			SubmitLocator:      "div[role='button'][aria-disabled], button[type='submit']",
			Enabled:            false,
			URLMatchPattern:    "https://chat.deepseek.com/*",
		},
	}
}
