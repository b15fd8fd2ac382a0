package platform

import (
	"bufio"
	"errors"
	"fmt"
	"hash/crc32"
	"net"
	"strings"
	"sync"
	"time"
)

// ErrAlreadyRunning is returned by LockInstance when another ZenTime process
// holds the lock. That process has been asked to show itself.
var ErrAlreadyRunning = errors.New("instance already running")

const (
	activateRequest = "activate"
	handoffTimeout  = time.Second
)

// InstanceLock is held by the one running ZenTime process per app name.
// Later launches connect to it to bring the running window forward.
type InstanceLock struct {
	mu       sync.Mutex
	listener net.Listener
	serving  chan struct{}
}

// LockInstance claims the loopback port derived from appName. If it is
// taken, the holder receives an activate request and ErrAlreadyRunning is returned.
func LockInstance(appName string) (*InstanceLock, error) {
	address := lockAddress(appName)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		if handoffErr := requestActivate(address); handoffErr != nil {
			return nil, fmt.Errorf("%w on %s (activate: %v)", ErrAlreadyRunning, address, handoffErr)
		}
		return nil, fmt.Errorf("%w on %s", ErrAlreadyRunning, address)
	}
	return &InstanceLock{listener: listener}, nil
}

// OnActivate starts answering activate requests from later launches.
// onActivate runs on the lock's goroutine.
func (lock *InstanceLock) OnActivate(onActivate func()) {
	lock.mu.Lock()
	defer lock.mu.Unlock()
	if lock.listener == nil || lock.serving != nil {
		return
	}
	lock.serving = make(chan struct{})
	go lock.serve(lock.listener, lock.serving, onActivate)
}

// Release gives up the lock. It is safe to call more than once.
func (lock *InstanceLock) Release() error {
	lock.mu.Lock()
	listener, serving := lock.listener, lock.serving
	lock.listener, lock.serving = nil, nil
	lock.mu.Unlock()

	if listener == nil {
		return nil
	}
	err := listener.Close()
	if serving != nil {
		<-serving
	}
	return err
}

// Address returns the loopback address the lock holds, or "" once released.
func (lock *InstanceLock) Address() string {
	lock.mu.Lock()
	defer lock.mu.Unlock()
	if lock.listener == nil {
		return ""
	}
	return lock.listener.Addr().String()
}

func (lock *InstanceLock) serve(listener net.Listener, serving chan struct{}, onActivate func()) {
	defer close(serving)
	for {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		if readRequest(conn) == activateRequest {
			onActivate()
		}
	}
}

func readRequest(conn net.Conn) string {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(handoffTimeout))
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func requestActivate(address string) error {
	conn, err := net.DialTimeout("tcp", address, handoffTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()
	_ = conn.SetWriteDeadline(time.Now().Add(handoffTimeout))
	_, err = fmt.Fprintln(conn, activateRequest)
	return err
}

// lockAddress maps appName onto a loopback port in [20000, 40000).
func lockAddress(appName string) string {
	port := 20000 + crc32.ChecksumIEEE([]byte(appName))%20000
	return fmt.Sprintf("127.0.0.1:%d", port)
}
