package transfer

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

const dialTimeout = 15 * time.Second

// Config holds the four values needed to reach the SFTP drop.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SFTPSession is a Session over an ssh connection with password auth.
type SFTPSession struct {
	conn *ssh.Client
	sftp *sftp.Client
}

// Dial opens the ssh transport and starts an sftp subsystem on it.
// On any failure everything opened so far is closed before returning.
func Dial(cfg Config) (*SFTPSession, error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	// TODO: pin the clearinghouse host key once ops exports it.
	sshCfg := &ssh.ClientConfig{
		User:            cfg.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         dialTimeout,
	}

	conn, err := ssh.Dial("tcp", addr, sshCfg)
	if err != nil {
		return nil, fmt.Errorf("ssh dial %s: %w", addr, err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("sftp subsystem: %w", err)
	}

	return &SFTPSession{conn: conn, sftp: client}, nil
}

// List reads path and returns normalized entries.
func (s *SFTPSession) List(path string) ([]Entry, error) {
	infos, err := s.sftp.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}
	return NormalizeEntries(infos), nil
}

// Close shuts down the sftp subsystem and the underlying ssh connection.
func (s *SFTPSession) Close() error {
	var err error
	if s.sftp != nil {
		err = s.sftp.Close()
	}
	if s.conn != nil {
		if cerr := s.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
