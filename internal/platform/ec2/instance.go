package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/stratoforge/strato/internal/util/retry"
)

// Instance wraps a running EC2 instance.
type Instance struct {
	api  API
	id   string
	name string
}

// ID returns the EC2 instance id.
func (i *Instance) ID() string { return i.id }

// Name returns the value of the instance's Name tag at launch.
func (i *Instance) Name() string { return i.name }

// IP returns the instance's public IPv4 address, polling until AWS has
// assigned one.
func (i *Instance) IP(ctx context.Context) (string, error) {
	var ip string
	err := retry.WithExponentialBackoff(ctx, func() error {
		out, err := i.api.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
			InstanceIds: []string{i.id},
		})
		if err != nil {
			return retry.Fatal(err)
		}
		for _, res := range out.Reservations {
			for _, inst := range res.Instances {
				if addr := aws.ToString(inst.PublicIpAddress); addr != "" {
					ip = addr
					return nil
				}
			}
		}
		return fmt.Errorf("instance %s has no public IP yet", i.id)
	})
	if err != nil {
		return "", fmt.Errorf("failed to get IP for instance %s: %w", i.id, err)
	}
	return ip, nil
}

// Delete terminates the instance. Termination of an already-terminated
// instance is accepted by EC2, so Delete is effectively idempotent.
func (i *Instance) Delete(ctx context.Context) error {
	_, err := i.api.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{i.id},
	})
	if err != nil {
		return fmt.Errorf("failed to terminate instance %s: %w", i.id, err)
	}
	return nil
}
