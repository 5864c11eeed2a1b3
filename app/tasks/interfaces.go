package tasks

import "github.com/realestodo/todo-feed/app/feed"

// ItemBuilder turns table rows into feed items, reporting drafts as skipped.
// Implemented by *feed.Builder.
type ItemBuilder interface {
	Run(row feed.Row) (feed.Item, bool)
}

// FeedRenderer produces the XML document. Implemented by *feed.Generator.
type FeedRenderer interface {
	Run(channel feed.Channel, items []feed.Item) (string, error)
	Limit() int
}
