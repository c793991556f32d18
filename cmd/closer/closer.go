package closer

import (
	"sync"

	"github.com/meverselabs/tokensale/common/rlog"
	"go.uber.org/zap"
)

// Closer is Closer inferface
type Closer interface {
	Close() error
}

// Manager handles closers
type Manager struct {
	sync.Mutex
	isClosed bool
	Names    []string
	Closers  []Closer
	logger   *zap.Logger
	wg       sync.WaitGroup
}

// NewManager returns a Manager
func NewManager() *Manager {
	cm := &Manager{
		Names:   []string{},
		Closers: []Closer{},
		logger:  rlog.Named("closer"),
	}
	cm.wg.Add(1)
	return cm
}

// IsClosed returns it is closed or not
func (cm *Manager) IsClosed() bool {
	cm.Lock()
	defer cm.Unlock()
	return cm.isClosed
}

// RemoveAll removes all closers
func (cm *Manager) RemoveAll() {
	cm.Lock()
	defer cm.Unlock()
	cm.Names = []string{}
	cm.Closers = []Closer{}
}

// Add adds a closer with a name
func (cm *Manager) Add(Name string, c Closer) {
	cm.Lock()
	defer cm.Unlock()
	cm.Names = append(cm.Names, Name)
	cm.Closers = append(cm.Closers, c)
}

// CloseAll closes all closers in reverse order of addition
func (cm *Manager) CloseAll() {
	cm.Lock()
	defer cm.Unlock()
	if cm.isClosed {
		return
	}
	cm.isClosed = true
	for i := len(cm.Closers) - 1; i >= 0; i-- {
		if err := cm.Closers[i].Close(); err != nil {
			cm.logger.Warn("close", zap.String("name", cm.Names[i]), zap.Error(err))
		} else {
			cm.logger.Debug("close", zap.String("name", cm.Names[i]))
		}
	}
	cm.wg.Done()
}

// Wait waits close all
func (cm *Manager) Wait() {
	cm.wg.Wait()
}
