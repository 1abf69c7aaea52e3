package steps

import (
	"context"
	"fmt"

	"rig/pkg/log"
	"rig/pkg/system"
)

// ServiceStep enables and starts the container engine's background
// service under systemd.
type ServiceStep struct {
	Look    system.LookPath
	Service string
}

func (s *ServiceStep) Name() string { return "container-service" }

func (s *ServiceStep) Description() string {
	return fmt.Sprintf("Enable and start service %s", s.Service)
}

// Check treats an already-enabled unit as done; enable --now would be a
// no-op anyway, but skipping avoids a pointless privileged call.
func (s *ServiceStep) Check(ctx context.Context, runner system.CommandRunner) (bool, error) {
	if _, err := s.Look("systemctl"); err != nil {
		return false, nil
	}
	_, err := runner.Run(ctx, fmt.Sprintf("systemctl is-enabled --quiet %s", s.Service))
	return err == nil, nil
}

func (s *ServiceStep) Apply(ctx context.Context, runner system.CommandRunner, logger log.Logger) error {
	if _, err := requireTool(s.Look, "systemctl"); err != nil {
		return err
	}
	logger.Info("enabling service", "service", s.Service)
	out, err := runner.Run(ctx, fmt.Sprintf("sudo systemctl enable --now %s", s.Service))
	if err != nil {
		return fmt.Errorf("enabling service %s: %w: %s", s.Service, err, out)
	}
	return nil
}

func (s *ServiceStep) ExecutionDetails() []string {
	return []string{fmt.Sprintf("run: sudo systemctl enable --now %s", s.Service)}
}
