package ec2

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/stratoforge/strato/internal/cloud"
)

// DefaultInstanceType is used when neither the launch options nor the
// configuration pick a machine size.
const DefaultInstanceType = "t3.micro"

// API is the subset of the EC2 API the client needs. *ec2.Client satisfies
// it directly; tests substitute a mock.
type API interface {
	RunInstances(ctx context.Context, in *ec2.RunInstancesInput, optFns ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error)
	TerminateInstances(ctx context.Context, in *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error)
	DescribeInstances(ctx context.Context, in *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	CreateImage(ctx context.Context, in *ec2.CreateImageInput, optFns ...func(*ec2.Options)) (*ec2.CreateImageOutput, error)
	DeregisterImage(ctx context.Context, in *ec2.DeregisterImageInput, optFns ...func(*ec2.Options)) (*ec2.DeregisterImageOutput, error)
	DescribeKeyPairs(ctx context.Context, in *ec2.DescribeKeyPairsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeKeyPairsOutput, error)
	ImportKeyPair(ctx context.Context, in *ec2.ImportKeyPairInput, optFns ...func(*ec2.Options)) (*ec2.ImportKeyPairOutput, error)
}

// Client is the AWS EC2 provider client.
type Client struct {
	*cloud.Base
	api API
}

var _ cloud.Cloud = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithAPI substitutes the API implementation, for tests.
func WithAPI(api API) Option {
	return func(c *Client) { c.api = api }
}

// New constructs an EC2 client. The resolved configuration supplies region
// and credentials; resolution and schema validation happen before the SDK
// client is built.
func New(ctx context.Context, tag string, opts cloud.Options, clientOpts ...Option) (*Client, error) {
	base, err := cloud.NewBase("ec2", tag, opts)
	if err != nil {
		return nil, err
	}

	c := &Client{Base: base}
	for _, opt := range clientOpts {
		opt(c)
	}
	if c.api == nil {
		cfg, err := loadAWSConfig(ctx, base.Config.GetStringDefault("region", ""),
			base.Config.GetStringDefault("access_key_id", ""),
			base.Config.GetStringDefault("secret_access_key", ""),
			base.Config.GetStringDefault("profile", ""))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		c.api = ec2.NewFromConfig(cfg)
	}
	return c, nil
}

func loadAWSConfig(ctx context.Context, region, accessKeyID, secretAccessKey, profile string) (aws.Config, error) {
	var optFns []func(*awsconfig.LoadOptions) error
	if region != "" {
		optFns = append(optFns, awsconfig.WithRegion(region))
	}
	if accessKeyID != "" && secretAccessKey != "" {
		optFns = append(optFns, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")))
	} else if profile != "" {
		optFns = append(optFns, awsconfig.WithSharedConfigProfile(profile))
	}
	return awsconfig.LoadDefaultConfig(ctx, optFns...)
}

// LaunchInstance boots one instance from opts.ImageID, importing the
// client's public key as an EC2 key pair first.
func (c *Client) LaunchInstance(ctx context.Context, opts cloud.LaunchOpts) (cloud.Instance, error) {
	if opts.ImageID == "" {
		return nil, fmt.Errorf("image id is required to launch an instance")
	}

	if err := c.ensureKeyPair(ctx); err != nil {
		return nil, err
	}

	instanceType := opts.InstanceType
	if instanceType == "" {
		instanceType = DefaultInstanceType
	}
	name := opts.Name
	if name == "" {
		name = c.Tag
	}

	in := &ec2.RunInstancesInput{
		ImageId:      aws.String(opts.ImageID),
		InstanceType: types.InstanceType(instanceType),
		KeyName:      aws.String(c.KeyPair.Name),
		MinCount:     aws.Int32(1),
		MaxCount:     aws.Int32(1),
		TagSpecifications: []types.TagSpecification{{
			ResourceType: types.ResourceTypeInstance,
			Tags: []types.Tag{
				{Key: aws.String("Name"), Value: aws.String(name)},
				{Key: aws.String("created-by"), Value: aws.String(c.Tag)},
			},
		}},
	}
	if opts.UserData != "" {
		// The API wants user data base64-encoded on the wire.
		in.UserData = aws.String(base64.StdEncoding.EncodeToString([]byte(opts.UserData)))
	}

	out, err := c.api.RunInstances(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to run instance: %w", err)
	}
	if len(out.Instances) == 0 {
		return nil, fmt.Errorf("no instance returned for image %s", opts.ImageID)
	}

	inst := &Instance{api: c.api, id: aws.ToString(out.Instances[0].InstanceId), name: name}
	c.Log.Infow("launched instance", "id", inst.ID(), "name", name)
	c.TrackInstance(inst)
	return inst, nil
}

// ensureKeyPair imports the configured public key unless EC2 already has a
// key pair with that name.
func (c *Client) ensureKeyPair(ctx context.Context) error {
	out, err := c.api.DescribeKeyPairs(ctx, &ec2.DescribeKeyPairsInput{
		KeyNames: []string{c.KeyPair.Name},
	})
	if err == nil && len(out.KeyPairs) > 0 {
		return nil
	}

	publicKey, err := c.KeyPair.PublicKeyContent()
	if err != nil {
		return err
	}
	_, err = c.api.ImportKeyPair(ctx, &ec2.ImportKeyPairInput{
		KeyName:           aws.String(c.KeyPair.Name),
		PublicKeyMaterial: []byte(publicKey),
	})
	if err != nil {
		return fmt.Errorf("failed to import key pair %s: %w", c.KeyPair.Name, err)
	}
	return nil
}

// GetInstance looks up an instance by id.
func (c *Client) GetInstance(ctx context.Context, id string) (cloud.Instance, error) {
	out, err := c.api.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe instance %s: %w", id, err)
	}
	for _, res := range out.Reservations {
		for _, inst := range res.Instances {
			return &Instance{api: c.api, id: aws.ToString(inst.InstanceId), name: nameTag(inst)}, nil
		}
	}
	return nil, fmt.Errorf("no instance found with id %s", id)
}

// Snapshot registers an AMI from the instance and tracks it for Clean.
func (c *Client) Snapshot(ctx context.Context, inst cloud.Instance, name string) (*cloud.ImageInfo, error) {
	out, err := c.api.CreateImage(ctx, &ec2.CreateImageInput{
		InstanceId: aws.String(inst.ID()),
		Name:       aws.String(name),
		TagSpecifications: []types.TagSpecification{{
			ResourceType: types.ResourceTypeImage,
			Tags:         []types.Tag{{Key: aws.String("created-by"), Value: aws.String(c.Tag)}},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create image from instance %s: %w", inst.ID(), err)
	}

	imageID := aws.ToString(out.ImageId)
	c.TrackImage(imageID)
	c.Log.Infow("created image", "image", imageID, "name", name)
	return &cloud.ImageInfo{ID: imageID, Name: name}, nil
}

// DeleteImage deregisters an AMI.
func (c *Client) DeleteImage(ctx context.Context, imageID string) error {
	_, err := c.api.DeregisterImage(ctx, &ec2.DeregisterImageInput{
		ImageId: aws.String(imageID),
	})
	if err != nil {
		return fmt.Errorf("failed to deregister image %s: %w", imageID, err)
	}
	return nil
}

// Clean terminates every instance and deregisters every image created by
// this client.
func (c *Client) Clean(ctx context.Context) error {
	return c.Base.Clean(ctx, c.DeleteImage)
}

func nameTag(inst types.Instance) string {
	for _, tag := range inst.Tags {
		if aws.ToString(tag.Key) == "Name" {
			return aws.ToString(tag.Value)
		}
	}
	return ""
}
