package ec2

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratoforge/strato/internal/cloud"
	"github.com/stratoforge/strato/internal/config"
)

type mockAPI struct {
	runInputs    []*ec2.RunInstancesInput
	terminated   []string
	deregistered []string
	importedKeys map[string]string
	existingKeys []string
	nextInstance int
	publicIP     string
}

func newMockAPI() *mockAPI {
	return &mockAPI{importedKeys: map[string]string{}, publicIP: "198.51.100.7"}
}

func (m *mockAPI) RunInstances(_ context.Context, in *ec2.RunInstancesInput, _ ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error) {
	m.runInputs = append(m.runInputs, in)
	m.nextInstance++
	id := fmt.Sprintf("i-%08d", m.nextInstance)
	return &ec2.RunInstancesOutput{
		Instances: []types.Instance{{InstanceId: aws.String(id)}},
	}, nil
}

func (m *mockAPI) TerminateInstances(_ context.Context, in *ec2.TerminateInstancesInput, _ ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error) {
	m.terminated = append(m.terminated, in.InstanceIds...)
	return &ec2.TerminateInstancesOutput{}, nil
}

func (m *mockAPI) DescribeInstances(_ context.Context, in *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	inst := types.Instance{
		InstanceId: aws.String(in.InstanceIds[0]),
		Tags:       []types.Tag{{Key: aws.String("Name"), Value: aws.String("ci-instance")}},
	}
	if m.publicIP != "" {
		inst.PublicIpAddress = aws.String(m.publicIP)
	}
	return &ec2.DescribeInstancesOutput{
		Reservations: []types.Reservation{{Instances: []types.Instance{inst}}},
	}, nil
}

func (m *mockAPI) CreateImage(_ context.Context, in *ec2.CreateImageInput, _ ...func(*ec2.Options)) (*ec2.CreateImageOutput, error) {
	return &ec2.CreateImageOutput{ImageId: aws.String("ami-" + aws.ToString(in.Name))}, nil
}

func (m *mockAPI) DeregisterImage(_ context.Context, in *ec2.DeregisterImageInput, _ ...func(*ec2.Options)) (*ec2.DeregisterImageOutput, error) {
	m.deregistered = append(m.deregistered, aws.ToString(in.ImageId))
	return &ec2.DeregisterImageOutput{}, nil
}

func (m *mockAPI) DescribeKeyPairs(_ context.Context, in *ec2.DescribeKeyPairsInput, _ ...func(*ec2.Options)) (*ec2.DescribeKeyPairsOutput, error) {
	out := &ec2.DescribeKeyPairsOutput{}
	for _, name := range in.KeyNames {
		for _, existing := range m.existingKeys {
			if name == existing {
				out.KeyPairs = append(out.KeyPairs, types.KeyPairInfo{KeyName: aws.String(name)})
			}
		}
	}
	return out, nil
}

func (m *mockAPI) ImportKeyPair(_ context.Context, in *ec2.ImportKeyPairInput, _ ...func(*ec2.Options)) (*ec2.ImportKeyPairOutput, error) {
	m.importedKeys[aws.ToString(in.KeyName)] = string(in.PublicKeyMaterial)
	return &ec2.ImportKeyPairOutput{KeyName: in.KeyName}, nil
}

func testClient(t *testing.T, api API) *Client {
	t.Helper()
	dir := t.TempDir()
	pubPath := filepath.Join(dir, "id_rsa.pub")
	require.NoError(t, os.WriteFile(pubPath, []byte("ssh-rsa AAAA ci@host\n"), 0o644))

	doc := fmt.Sprintf(`
[ec2]
region = "us-west-2"
access_key_id = "AKIATEST"
secret_access_key = "secret"
key_name = "strato-ci"
public_key_path = %q
`, pubPath)

	client, err := New(context.Background(), "ci", cloud.Options{
		ConfigSource: &config.Source{Reader: strings.NewReader(doc)},
	}, WithAPI(api))
	require.NoError(t, err)
	return client
}

func TestNewFailsFastOnUnrecognizedKey(t *testing.T) {
	t.Parallel()
	_, err := New(context.Background(), "ci", cloud.Options{
		ConfigSource: &config.Source{Reader: strings.NewReader("[ec2]\nregoin = \"us-west-2\"\n")},
	}, WithAPI(newMockAPI()))

	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "regoin")
}

func TestLaunchInstance(t *testing.T) {
	t.Parallel()
	api := newMockAPI()
	client := testClient(t, api)

	inst, err := client.LaunchInstance(context.Background(), cloud.LaunchOpts{
		ImageID:  "ami-12345",
		UserData: "#cloud-config\n",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(inst.ID(), "i-"))

	require.Len(t, api.runInputs, 1)
	in := api.runInputs[0]
	assert.Equal(t, "ami-12345", aws.ToString(in.ImageId))
	assert.Equal(t, types.InstanceType(DefaultInstanceType), in.InstanceType)
	assert.Equal(t, "strato-ci", aws.ToString(in.KeyName))
	userData, err := base64.StdEncoding.DecodeString(aws.ToString(in.UserData))
	require.NoError(t, err)
	assert.Equal(t, "#cloud-config\n", string(userData))

	// Key pair was imported since EC2 did not have it yet.
	assert.Equal(t, "ssh-rsa AAAA ci@host", api.importedKeys["strato-ci"])

	ip, err := inst.IP(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.7", ip)
}

func TestLaunchSkipsImportWhenKeyExists(t *testing.T) {
	t.Parallel()
	api := newMockAPI()
	api.existingKeys = []string{"strato-ci"}
	client := testClient(t, api)

	_, err := client.LaunchInstance(context.Background(), cloud.LaunchOpts{ImageID: "ami-12345"})
	require.NoError(t, err)
	assert.Empty(t, api.importedKeys)
}

func TestGetInstance(t *testing.T) {
	t.Parallel()
	client := testClient(t, newMockAPI())

	inst, err := client.GetInstance(context.Background(), "i-00000001")
	require.NoError(t, err)
	assert.Equal(t, "i-00000001", inst.ID())
	assert.Equal(t, "ci-instance", inst.Name())
}

func TestSnapshotAndClean(t *testing.T) {
	t.Parallel()
	api := newMockAPI()
	client := testClient(t, api)

	inst, err := client.LaunchInstance(context.Background(), cloud.LaunchOpts{ImageID: "ami-12345"})
	require.NoError(t, err)

	info, err := client.Snapshot(context.Background(), inst, "after-setup")
	require.NoError(t, err)
	assert.Equal(t, "ami-after-setup", info.ID)

	require.NoError(t, client.Clean(context.Background()))
	assert.Equal(t, []string{inst.ID()}, api.terminated)
	assert.Equal(t, []string{"ami-after-setup"}, api.deregistered)
}
