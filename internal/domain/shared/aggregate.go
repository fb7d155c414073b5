package shared

// AggregateRoot extends Entity with optimistic locking and domain-event
// collection. Events accumulate on the aggregate while the transaction runs
// and are published after commit.
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	LoadedVersion() int
	SyncLoadedVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot is the embeddable aggregate base. Version backs the
// conditional update in the repositories; loadedVersion and domainEvents
// never persist.
type BaseAggregateRoot struct {
	BaseEntity
	Version       int `gorm:"not null;default:1"`
	loadedVersion int
	domainEvents  []DomainEvent `gorm:"-"`
}

// GetVersion returns the version used by the optimistic-lock check.
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion bumps the version.
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// LoadedVersion returns the version the persisted row held when this
// aggregate was last read or written. The repositories compare against it in
// their conditional updates, so an aggregate mutated more than once between
// loads still locks on the version actually stored.
func (a *BaseAggregateRoot) LoadedVersion() int {
	return a.loadedVersion
}

// SyncLoadedVersion records the current version as the persisted one. The
// repositories call it after every successful read and write.
func (a *BaseAggregateRoot) SyncLoadedVersion() {
	a.loadedVersion = a.Version
}

// AddDomainEvent queues an event for publication after commit.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the queued events.
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops the queued events, called once they are published.
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot returns an aggregate base at version 1.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}
