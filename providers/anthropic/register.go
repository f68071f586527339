package anthropic

import (
	"github.com/quillcms/quill/core"
	"github.com/quillcms/quill/providers"
)

func init() {
	providers.Register(core.KindAnthropic, func(cfg core.ProviderConfig) core.Provider {
		return New(cfg)
	})
}
