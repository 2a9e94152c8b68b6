package gate

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/epreen/zimapp-web-sub001/pkg/plan"
)

var printer = message.NewPrinter(language.English)

const bytesPerMB = 1_000_000

func fileSizeMessage(p plan.Plan, limit plan.Limit) string {
	return printer.Sprintf("File exceeds the %d MB limit for the %s plan.", int64(limit)/bytesPerMB, p)
}

func durationMessage(p plan.Plan, limit plan.Limit) string {
	return printer.Sprintf("Video exceeds the %d second limit for the %s plan.", int64(limit), p)
}

func quotaMessage(a Action, p plan.Plan, limit plan.Limit) string {
	if limit == 0 {
		return printer.Sprintf("%s are not included in the %s plan.", pluralNoun(a, true), p)
	}
	switch a {
	case ActionPromoPush:
		return printer.Sprintf("You have used all %d promo pushes included in the %s plan this month.", int64(limit), p)
	default:
		return printer.Sprintf("You have reached the %d %s limit for the %s plan.", int64(limit), pluralNoun(a, false), p)
	}
}

func unverifiedMessage(a Action) string {
	return printer.Sprintf("Unable to verify your %s usage right now. Please try again shortly.", pluralNoun(a, false))
}

func pluralNoun(a Action, capitalised bool) string {
	var s string
	switch a {
	case ActionVideoAd:
		s = "video ad"
	case ActionPromoPush:
		s = "promo push"
	default:
		s = "product"
	}
	if !capitalised {
		return s
	}
	switch a {
	case ActionVideoAd:
		return "Video ads"
	case ActionPromoPush:
		return "Promo pushes"
	}
	return "Products"
}
