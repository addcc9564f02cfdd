package common

import (
	"github.com/ternarybob/banner"
)

const bannerKeyWidth = 14

// PrintBanner displays the application banner with the settings this run uses
func PrintBanner(version string, config *Config) {
	b := banner.New().SetStyle(banner.StyleRound).SetWidth(72)

	b.PrintTopLine()
	b.PrintCenteredText("transcheck " + version)
	b.PrintSeparatorLine()
	b.PrintKeyValue("Base branch", config.Harness.BaseBranch, bannerKeyWidth)
	b.PrintKeyValue("Translators", config.Harness.TranslatorsDir, bannerKeyWidth)
	b.PrintKeyValue("Extension", config.Browser.ExtensionName+" ("+config.Harness.ExtensionDir+")", bannerKeyWidth)
	b.PrintKeyValue("Server", config.TranslatorServerURL(), bannerKeyWidth)
	if config.Harness.KeepBrowserOpen {
		b.PrintText("Browser stays open after the report")
	}
	b.PrintBottomLine()
}
