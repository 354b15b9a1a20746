package control

import (
	"bufio"
	"fmt"
	"net"

	"github.com/pkg/errors"
)

// Send dials the control socket, issues one command and returns the
// single reply line.
func Send(socketPath, command string) (string, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to dial control socket %s", socketPath)
	}
	defer conn.Close()

	if _, err := fmt.Fprintln(conn, command); err != nil {
		return "", errors.Wrap(err, "failed to send command")
	}

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", errors.Wrap(err, "failed to read reply")
		}
		return "", errors.New("connection closed before reply")
	}

	return scanner.Text(), nil
}
