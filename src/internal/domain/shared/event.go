package shared

import "time"

// DomainEvent 領域事件基礎介面
type DomainEvent interface {
	EventID() string       // 事件唯一標識
	EventType() string     // 事件類型，例如 "coins.credited"
	OccurredAt() time.Time // 發生時間
	AggregateID() string   // 聚合根 ID
}

// EventPublisher 事件發布器介面
//
// 介面定義在 Domain Layer，由 Infrastructure 實作。
// Use Case 在事務提交成功後才發布（PullEvents → PublishBatch）。
type EventPublisher interface {
	Publish(event DomainEvent) error
	PublishBatch(events []DomainEvent) error
}

// BaseEvent 事件共用欄位
type BaseEvent struct {
	ID          string
	Type        string
	Aggregate   string
	OccurredAtT time.Time
}

// EventID 實現 DomainEvent
func (e BaseEvent) EventID() string { return e.ID }

// EventType 實現 DomainEvent
func (e BaseEvent) EventType() string { return e.Type }

// OccurredAt 實現 DomainEvent
func (e BaseEvent) OccurredAt() time.Time { return e.OccurredAtT }

// AggregateID 實現 DomainEvent
func (e BaseEvent) AggregateID() string { return e.Aggregate }
